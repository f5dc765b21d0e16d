// Package memhost is an in-memory test double for the host: project options,
// tag labels and link building without a database.
package memhost

import (
	"context"
	"sync"

	"sentry_telegram/internal/links"
	"sentry_telegram/internal/model"
)

// Host is an in-memory implementation of the host collaborator interfaces.
type Host struct {
	mu          sync.Mutex
	options     map[string]map[string]string
	keyLabels   map[string]map[string]string
	valueLabels map[string]map[model.Tag]string

	// Prefix is prepended to generated links.
	Prefix string

	// Lookups counts label queries, for asserting lookups were skipped.
	Lookups int
	// Err, when set, is returned by every lookup.
	Err error
}

// New creates an empty Host that builds links under prefix.
func New(prefix string) *Host {
	return &Host{
		options:     map[string]map[string]string{},
		keyLabels:   map[string]map[string]string{},
		valueLabels: map[string]map[model.Tag]string{},
		Prefix:      prefix,
	}
}

// SetOptions replaces the options of a project.
func (h *Host) SetOptions(project string, opts map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make(map[string]string, len(opts))
	for k, v := range opts {
		cp[k] = v
	}
	h.options[project] = cp
}

// SetKeyLabel registers a display label for a tag key.
func (h *Host) SetKeyLabel(project, key, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.keyLabels[project] == nil {
		h.keyLabels[project] = map[string]string{}
	}
	h.keyLabels[project][key] = label
}

// SetValueLabel registers a display label for a tag value.
func (h *Host) SetValueLabel(project, key, value, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.valueLabels[project] == nil {
		h.valueLabels[project] = map[model.Tag]string{}
	}
	h.valueLabels[project][model.Tag{Key: key, Value: value}] = label
}

// ProjectOptions returns a copy of the options stored for project.
func (h *Host) ProjectOptions(_ context.Context, project string) (map[string]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return nil, h.Err
	}
	out := make(map[string]string, len(h.options[project]))
	for k, v := range h.options[project] {
		out[k] = v
	}
	return out, nil
}

// KeyLabels returns the labels known for keys.
func (h *Host) KeyLabels(_ context.Context, project string, keys []string) (map[string]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Lookups++
	if h.Err != nil {
		return nil, h.Err
	}
	out := map[string]string{}
	for _, k := range keys {
		if l, ok := h.keyLabels[project][k]; ok {
			out[k] = l
		}
	}
	return out, nil
}

// ValueLabels returns the labels known for the given key/value pairs.
func (h *Host) ValueLabels(_ context.Context, project string, pairs []model.Tag) (map[model.Tag]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Lookups++
	if h.Err != nil {
		return nil, h.Err
	}
	out := map[model.Tag]string{}
	for _, p := range pairs {
		if l, ok := h.valueLabels[project][p]; ok {
			out[p] = l
		}
	}
	return out, nil
}

// RuleEditURL builds the rule settings link.
func (h *Host) RuleEditURL(org, project string, ruleID int64) string {
	return links.New(h.Prefix).RuleEditURL(org, project, ruleID)
}

// GroupURL returns the group's URL, deriving one when it is empty.
func (h *Host) GroupURL(g model.Group, p model.Project) string {
	return links.New(h.Prefix).GroupURL(g, p)
}
