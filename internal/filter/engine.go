// Package filter implements the tag include/exclude matching engine.
package filter

import (
	"iter"
	"strings"

	"sentry_telegram/internal/model"
)

// KeySet is a set of lowercased tag keys.
type KeySet map[string]struct{}

// ParseKeys parses a comma separated list of tag keys into a lowercased set.
// Blank entries are ignored, so an empty string yields an empty set.
func ParseKeys(raw string) KeySet {
	set := KeySet{}
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

func (s KeySet) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}

// Engine decides which tags make it into a notification.
type Engine struct {
	Include KeySet
	Exclude KeySet
	// Canonical maps a lowercased key to its standardized form.
	// A nil Canonical leaves keys unchanged.
	Canonical func(string) string
}

// New creates an Engine from the raw included/excluded option values.
func New(included, excluded string, canonical func(string) string) *Engine {
	return &Engine{
		Include:   ParseKeys(included),
		Exclude:   ParseKeys(excluded),
		Canonical: canonical,
	}
}

// Match checks whether a tag key passes the include and exclude lists.
// An empty include list admits every key. Include matches use OR logic over
// the lowercased and canonical key; any exclude match rejects the key.
func (e *Engine) Match(key string) bool {
	lower := strings.ToLower(key)
	std := lower
	if e.Canonical != nil {
		std = e.Canonical(lower)
	}

	if len(e.Include) > 0 && !e.Include.has(lower, std) {
		return false
	}
	if len(e.Exclude) > 0 && e.Exclude.has(lower, std) {
		return false
	}
	return true
}

// Apply collects the tags of seq that pass Match, preserving order.
func (e *Engine) Apply(seq iter.Seq2[string, string]) []model.Tag {
	var out []model.Tag
	for k, v := range seq {
		if e.Match(k) {
			out = append(out, model.Tag{Key: k, Value: v})
		}
	}
	return out
}
