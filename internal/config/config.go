// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr   string
	DatabasePath string
	LogLevel     string
	URLPrefix    string
	CatalogPath  string
	SendDelay    time.Duration
	CORSOrigins  []string
}

// Load reads configuration from environment variables. Variables the
// environment leaves empty are taken from the dotenv file named by ENV_FILE
// (default ".env"); a missing file is ignored.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	file, err := readEnvFile(path)
	if err != nil {
		return nil, err
	}
	return load(lookup(file))
}

func load(get func(string) string) (*Config, error) {
	envOrDefault := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	prefix := strings.TrimRight(get("URL_PREFIX"), "/")
	if prefix == "" {
		return nil, fmt.Errorf("URL_PREFIX is required")
	}
	if u, err := url.Parse(prefix); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("URL_PREFIX must be an absolute URL, got %q", prefix)
	}

	delay := time.Second
	if raw := get("SEND_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SEND_DELAY %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("SEND_DELAY must not be negative, got %s", d)
		}
		delay = d
	}

	var origins []string
	if raw := get("CORS_ORIGINS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			origins = append(origins, s)
		}
	}

	return &Config{
		ListenAddr:   envOrDefault("LISTEN_ADDR", ":8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/forwarder.db"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		URLPrefix:    prefix,
		CatalogPath:  get("CATALOG_PATH"),
		SendDelay:    delay,
		CORSOrigins:  origins,
	}, nil
}

func readEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

func lookup(file map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file[key]
	}
}
