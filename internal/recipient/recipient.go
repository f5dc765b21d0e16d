// Package recipient parses the chat_id option into Telegram recipients.
package recipient

import (
	"regexp"
	"strings"
)

var (
	// Public channel or group usernames. The first five characters after the
	// @ must be alphanumeric; underscores may follow.
	handleRe = regexp.MustCompile(`^@[a-zA-Z0-9]{5,}\w*$`)
	// Numeric user, group or channel ids; supergroups and channels are negative.
	chatIDRe = regexp.MustCompile(`^-?[0-9]+$`)
)

// Valid reports whether id looks like a channel handle or a numeric chat id.
func Valid(id string) bool {
	return handleRe.MatchString(id) || chatIDRe.MatchString(id)
}

// Parse splits a whitespace separated recipient list and keeps the valid
// entries in their original order. Invalid entries are dropped silently.
func Parse(raw string) []string {
	var out []string
	for _, id := range strings.Fields(raw) {
		if Valid(id) {
			out = append(out, id)
		}
	}
	return out
}
