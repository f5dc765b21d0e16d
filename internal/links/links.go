// Package links builds absolute URLs into the monitoring platform's web UI.
package links

import (
	"fmt"
	"net/url"
	"strings"

	"sentry_telegram/internal/model"
)

// Builder builds links below a fixed URL prefix.
type Builder struct {
	prefix string
}

// New creates a Builder for prefix, e.g. "https://sentry.example.com".
func New(prefix string) *Builder {
	return &Builder{prefix: strings.TrimRight(prefix, "/")}
}

// Absolute prefixes path with the configured URL prefix.
func (b *Builder) Absolute(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.prefix + path
}

// RuleEditURL links to the settings page of an alert rule.
func (b *Builder) RuleEditURL(org, project string, ruleID int64) string {
	return b.Absolute(fmt.Sprintf("/%s/%s/settings/alerts/rules/%d/",
		url.PathEscape(org), url.PathEscape(project), ruleID))
}

// GroupURL returns g.URL when the host sent one, and otherwise links to the
// issue page of the group.
func (b *Builder) GroupURL(g model.Group, p model.Project) string {
	if g.URL != "" {
		return g.URL
	}
	return b.Absolute(fmt.Sprintf("/%s/%s/issues/%d/",
		url.PathEscape(g.Organization), url.PathEscape(p.Slug), g.ID))
}
