package model

import (
	"strconv"
	"strings"
)

// Option keys as stored per project.
const (
	OptToken           = "token"
	OptChatID          = "chat_id"
	OptBotName         = "bot_name"
	OptIconURL         = "icon_url"
	OptIncludeTags     = "include_tags"
	OptIncludedTagKeys = "included_tag_keys"
	OptExcludedTagKeys = "excluded_tag_keys"
	OptIncludeRules    = "include_rules"
)

// DefaultBotName is used when no bot_name option is set.
const DefaultBotName = "Sentry"

// Options is the per-project forwarding configuration.
type Options struct {
	Token           string
	ChatID          string
	BotName         string
	IconURL         string
	IncludeTags     bool
	IncludedTagKeys string
	ExcludedTagKeys string
	IncludeRules    bool
}

// ParseOptions builds Options from the raw key/value pairs kept by the host.
// Unknown keys are ignored and booleans that fail to parse are false.
func ParseOptions(raw map[string]string) Options {
	o := Options{
		Token:           strings.TrimSpace(raw[OptToken]),
		ChatID:          strings.TrimSpace(raw[OptChatID]),
		BotName:         strings.TrimSpace(raw[OptBotName]),
		IconURL:         strings.TrimSpace(raw[OptIconURL]),
		IncludeTags:     parseBool(raw[OptIncludeTags]),
		IncludedTagKeys: raw[OptIncludedTagKeys],
		ExcludedTagKeys: raw[OptExcludedTagKeys],
		IncludeRules:    parseBool(raw[OptIncludeRules]),
	}
	if o.BotName == "" {
		o.BotName = DefaultBotName
	}
	return o
}

// Configured reports whether both the bot token and the chat list are set.
func (o Options) Configured() bool {
	return o.Token != "" && o.ChatID != ""
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return b
}
