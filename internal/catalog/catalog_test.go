package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestCanonical(t *testing.T) {
	c := Default()

	tests := []struct {
		key  string
		want string
	}{
		{key: "server_name", want: "server"},
		{key: "sentry:release", want: "release"},
		{key: "sentry:server_name", want: "server"},
		{key: "level", want: "level"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.Canonical(tt.key)); diff != "" {
				t.Errorf("Canonical(%q) mismatch (-want +got):\n%s", tt.key, diff)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		key      string
		explicit string
		want     string
	}{
		{name: "explicit label wins", key: "server_name", explicit: "Host", want: "Host"},
		{name: "catalog label", key: "server_name", want: "Server"},
		{name: "reserved key label", key: "sentry:user", want: "User"},
		{name: "title cased fallback", key: "browser_name", want: "Browser Name"},
		{name: "title case after punctuation", key: "browser.NAME", want: "Browser.Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.Label(tt.key, tt.explicit)); diff != "" {
				t.Errorf("Label() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `
aliases:
  Host_Name: Server
labels:
  url: Address
  device: Device Model
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff("server", c.Canonical("host_name")); diff != "" {
		t.Errorf("file alias mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("server", c.Canonical("server_name")); diff != "" {
		t.Errorf("default alias lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("Address", c.Label("url", "")); diff != "" {
		t.Errorf("overridden label mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("Device Model", c.Label("device", "")); diff != "" {
		t.Errorf("added label mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{name: "unknown field", path: func(t *testing.T) string { return writeCatalog(t, "colours: {}\n") }},
		{name: "invalid yaml", path: func(t *testing.T) string { return writeCatalog(t, "aliases: [\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
