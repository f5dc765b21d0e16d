// Package tags resolves raw event tags into their human-readable labels.
package tags

import (
	"context"
	"fmt"
	"iter"

	"sentry_telegram/internal/model"
)

// LabelSource looks up display labels for tag keys and values of a project.
// Missing entries are simply absent from the returned maps.
type LabelSource interface {
	KeyLabels(ctx context.Context, project string, keys []string) (map[string]string, error)
	ValueLabels(ctx context.Context, project string, pairs []model.Tag) (map[model.Tag]string, error)
}

// Resolver turns event tags into (key label, value label) pairs.
type Resolver struct {
	labels LabelSource
}

// NewResolver creates a Resolver backed by the given label source.
func NewResolver(labels LabelSource) *Resolver {
	return &Resolver{labels: labels}
}

// Resolve fetches labels for all tags of ev in two lookups and returns a
// sequence yielding one pair per raw tag, in the event's order. Raw keys and
// values are used where no label exists. An event without tags yields an
// empty sequence without touching the label source.
func (r *Resolver) Resolve(ctx context.Context, ev *model.Event) (iter.Seq2[string, string], error) {
	if len(ev.Tags) == 0 {
		return func(func(string, string) bool) {}, nil
	}

	keys := distinctKeys(ev.Tags)
	keyLabels, err := r.labels.KeyLabels(ctx, ev.Project.Slug, keys)
	if err != nil {
		return nil, fmt.Errorf("key labels: %w", err)
	}
	valueLabels, err := r.labels.ValueLabels(ctx, ev.Project.Slug, ev.Tags)
	if err != nil {
		return nil, fmt.Errorf("value labels: %w", err)
	}

	tags := ev.Tags
	return func(yield func(string, string) bool) {
		for _, t := range tags {
			k, ok := keyLabels[t.Key]
			if !ok {
				k = t.Key
			}
			v, ok := valueLabels[t]
			if !ok {
				v = t.Value
			}
			if !yield(k, v) {
				return
			}
		}
	}, nil
}

func distinctKeys(tags []model.Tag) []string {
	seen := make(map[string]struct{}, len(tags))
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t.Key]; ok {
			continue
		}
		seen[t.Key] = struct{}{}
		keys = append(keys, t.Key)
	}
	return keys
}
