// Package testsupport provides shared fixtures for squelch tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"squelch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "captures")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Uploader.APIURL = "http://127.0.0.1:0/upload"
	cfg.Uploader.APIKey = "test-key"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIURL overrides the ingestion endpoint on the test config.
func WithAPIURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Uploader.APIURL = url
	}
}

// WithSettleSeconds overrides the debounce window on the test config.
func WithSettleSeconds(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Watcher.SettleSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WatchDir)
}
