// Package render builds the Telegram message text for a notification.
package render

import (
	"context"
	"fmt"
	"strings"

	"sentry_telegram/internal/filter"
	"sentry_telegram/internal/model"
	"sentry_telegram/internal/tags"
)

const (
	emptyCulprit     = "<empty>"
	sameAsTitle      = "same as title"
	triggeredByLabel = "Triggered By: "
	tagsHeader       = "Tags: \n"
)

// contentTemplate takes title, title link, level, project, culprit,
// triggers and tags, in that order.
const contentTemplate = `
# [%s](%s)

*** Level: %s ***

** Project: %s **

** Culprit: %s **

%s

%s
`

// Links builds absolute URLs pointing back into the monitoring platform.
type Links interface {
	RuleEditURL(org, project string, ruleID int64) string
	GroupURL(g model.Group, p model.Project) string
}

// Message is a rendered notification.
type Message struct {
	Body string
	// Color reflects the event level. Markdown messages do not carry it.
	Color string
}

// Renderer composes notification messages.
type Renderer struct {
	resolver  *tags.Resolver
	canonical func(string) string
	links     Links
}

// New creates a Renderer. canonical standardizes tag keys for filtering and
// may be nil.
func New(labels tags.LabelSource, canonical func(string) string, links Links) *Renderer {
	return &Renderer{
		resolver:  tags.NewResolver(labels),
		canonical: canonical,
		links:     links,
	}
}

// Render builds the message for n using the project's options. Only tag
// label lookups can fail; missing optional data leaves sections empty.
func (r *Renderer) Render(ctx context.Context, n *model.Notification, opts model.Options) (Message, error) {
	ev := &n.Event
	level := ev.Tag("level")

	var triggers, tagBlock string
	if opts.IncludeRules {
		triggers = r.formatTriggers(ev, n.Rules)
	}
	if opts.IncludeTags {
		var err error
		tagBlock, err = r.formatTags(ctx, ev, opts)
		if err != nil {
			return Message{}, err
		}
	}

	body := fmt.Sprintf(contentTemplate,
		ev.Message,
		r.links.GroupURL(ev.Group, ev.Project),
		level,
		ev.Project.FullName(),
		Culprit(ev.Message, ev.Group.Culprit),
		triggers,
		tagBlock,
	)

	return Message{
		Body:  strings.TrimSpace(body),
		Color: ColorForLevel(level),
	}, nil
}

// Culprit returns the culprit line value for an event titled title.
func Culprit(title, culprit string) string {
	switch {
	case culprit == "":
		return emptyCulprit
	case culprit == title:
		return sameAsTitle
	default:
		return culprit
	}
}

func (r *Renderer) formatTriggers(ev *model.Event, rules []model.Rule) string {
	if len(rules) == 0 {
		return ""
	}
	links := make([]string, 0, len(rules))
	for _, rule := range rules {
		link := r.links.RuleEditURL(ev.Group.Organization, ev.Project.Slug, rule.ID)
		links = append(links, fmt.Sprintf("[%s](%s)", rule.Label, link))
	}
	return triggeredByLabel + strings.Join(links, " ")
}

func (r *Renderer) formatTags(ctx context.Context, ev *model.Event, opts model.Options) (string, error) {
	seq, err := r.resolver.Resolve(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("resolve tags: %w", err)
	}

	list := filter.New(opts.IncludedTagKeys, opts.ExcludedTagKeys, r.canonical).Apply(seq)
	if len(list) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(tagsHeader)
	for i, t := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "*%s %s*", t.Key, t.Value)
	}
	return b.String(), nil
}
