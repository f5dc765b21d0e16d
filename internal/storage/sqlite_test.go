package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sentry_telegram/internal/catalog"
	"sentry_telegram/internal/model"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:", catalog.Default())
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProjectOptions(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	got, err := s.ProjectOptions(ctx, "unknown")
	if err != nil {
		t.Fatalf("options of unknown project: %v", err)
	}
	if diff := cmp.Diff(map[string]string{}, got); diff != "" {
		t.Errorf("unknown project mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		opts map[string]string
	}{
		{
			name: "initial options",
			opts: map[string]string{
				model.OptToken:        "T",
				model.OptChatID:       "-100000 @channel",
				model.OptIncludeRules: "true",
			},
		},
		{
			name: "replaced options drop old keys",
			opts: map[string]string{
				model.OptToken:  "T2",
				model.OptChatID: "42",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SetProjectOptions(ctx, "bar", tt.opts); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := s.ProjectOptions(ctx, "bar")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(tt.opts, got); diff != "" {
				t.Errorf("ProjectOptions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProjectOptionsIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	if err := s.SetProjectOptions(ctx, "a", map[string]string{model.OptToken: "A"}); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := s.SetProjectOptions(ctx, "b", map[string]string{model.OptToken: "B"}); err != nil {
		t.Fatalf("set b: %v", err)
	}

	got, err := s.ProjectOptions(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(map[string]string{model.OptToken: "A"}, got); diff != "" {
		t.Errorf("ProjectOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyLabels(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	for _, kl := range []struct{ key, label string }{
		{"server_name", ""},
		{"browser_name", ""},
		{"custom", "Custom Label"},
		{"custom", "Renamed"},
	} {
		if err := s.SetKeyLabel(ctx, "bar", kl.key, kl.label); err != nil {
			t.Fatalf("set key label %s: %v", kl.key, err)
		}
	}
	if err := s.SetKeyLabel(ctx, "other", "level", "Other"); err != nil {
		t.Fatalf("set key label: %v", err)
	}

	got, err := s.KeyLabels(ctx, "bar", []string{"server_name", "browser_name", "custom", "level", "unknown"})
	if err != nil {
		t.Fatalf("key labels: %v", err)
	}

	want := map[string]string{
		"server_name":  "Server",
		"browser_name": "Browser Name",
		"custom":       "Renamed",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("KeyLabels mismatch (-want +got):\n%s", diff)
	}

	empty, err := s.KeyLabels(ctx, "bar", nil)
	if err != nil {
		t.Fatalf("key labels without keys: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no labels, got %v", empty)
	}
}

func TestValueLabels(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	chrome := model.Tag{Key: "browser", Value: "Chrome 1"}
	firefox := model.Tag{Key: "browser", Value: "Firefox"}
	user := model.Tag{Key: "sentry:user", Value: "id:1"}

	if err := s.SetValueLabel(ctx, "bar", chrome, "Chrome"); err != nil {
		t.Fatalf("set chrome: %v", err)
	}
	if err := s.SetValueLabel(ctx, "bar", firefox, ""); err != nil {
		t.Fatalf("set firefox: %v", err)
	}
	if err := s.SetValueLabel(ctx, "bar", user, "jane@example.com"); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if err := s.SetValueLabel(ctx, "other", chrome, "Wrong project"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	got, err := s.ValueLabels(ctx, "bar", []model.Tag{chrome, firefox, {Key: "browser", Value: "Safari"}})
	if err != nil {
		t.Fatalf("value labels: %v", err)
	}

	want := map[model.Tag]string{chrome: "Chrome"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValueLabels mismatch (-want +got):\n%s", diff)
	}
}

func TestSetLabels(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	chrome := model.Tag{Key: "browser", Value: "Chrome 1"}
	if err := s.SetLabels(ctx, "bar",
		map[string]string{"custom": "Custom", "server_name": ""},
		map[model.Tag]string{chrome: "Chrome"},
	); err != nil {
		t.Fatalf("set labels: %v", err)
	}

	keys, err := s.KeyLabels(ctx, "bar", []string{"custom", "server_name"})
	if err != nil {
		t.Fatalf("key labels: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"custom": "Custom", "server_name": "Server"}, keys); diff != "" {
		t.Errorf("KeyLabels mismatch (-want +got):\n%s", diff)
	}

	values, err := s.ValueLabels(ctx, "bar", []model.Tag{chrome})
	if err != nil {
		t.Fatalf("value labels: %v", err)
	}
	if diff := cmp.Diff(map[model.Tag]string{chrome: "Chrome"}, values); diff != "" {
		t.Errorf("ValueLabels mismatch (-want +got):\n%s", diff)
	}
}

func TestSetLabelsCancelledStoresNothing(t *testing.T) {
	s := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SetLabels(ctx, "bar", map[string]string{"custom": "Custom"}, nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	keys, err := s.KeyLabels(context.Background(), "bar", []string{"custom"})
	if err != nil {
		t.Fatalf("key labels: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no labels after failed update, got %v", keys)
	}
}

// Ensure the Storage interface is satisfied.
var _ Storage = (*SQLite)(nil)
