// Package catalog holds the tag key aliases and default labels used to
// present and filter event tags.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const reservedPrefix = "sentry:"

// Catalog maps tag keys to their canonical form and default labels.
type Catalog struct {
	Aliases map[string]string `yaml:"aliases"`
	Labels  map[string]string `yaml:"labels"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Aliases: map[string]string{
			"server_name": "server",
		},
		Labels: map[string]string{
			"exc_type":       "Exception Type",
			"sentry:user":    "User",
			"sentry:release": "Release",
			"os":             "OS",
			"url":            "URL",
			"server_name":    "Server",
		},
	}
}

// Load reads a YAML catalog from path and merges it over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	for k, v := range file.Aliases {
		c.Aliases[strings.ToLower(k)] = strings.ToLower(v)
	}
	for k, v := range file.Labels {
		c.Labels[k] = v
	}
	return c, nil
}

// Canonical returns the standardized form of a lowercased tag key: the
// reserved "sentry:" prefix is dropped and aliases are applied.
func (c *Catalog) Canonical(key string) string {
	key = strings.TrimPrefix(key, reservedPrefix)
	if alias, ok := c.Aliases[key]; ok {
		return alias
	}
	return key
}

// Label returns the display label for key. An explicit label wins, then the
// catalog label, then a title-cased form of the key.
func (c *Catalog) Label(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if l, ok := c.Labels[key]; ok {
		return l
	}
	return titleCase(strings.ReplaceAll(key, "_", " "))
}

func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
