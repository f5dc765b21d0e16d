// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"sentry_telegram/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	ProjectOptions(ctx context.Context, project string) (map[string]string, error)
	SetProjectOptions(ctx context.Context, project string, opts map[string]string) error

	SetKeyLabel(ctx context.Context, project, key, label string) error
	SetValueLabel(ctx context.Context, project string, tag model.Tag, label string) error
	SetLabels(ctx context.Context, project string, keys map[string]string, values map[model.Tag]string) error
	KeyLabels(ctx context.Context, project string, keys []string) (map[string]string, error)
	ValueLabels(ctx context.Context, project string, pairs []model.Tag) (map[model.Tag]string, error)

	Close() error
}
