package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"squelch/internal/config"
)

// clearCaptureEnv blanks every environment variable the loader consults so a
// developer's shell cannot leak values into the test.
func clearCaptureEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SQUELCH_WATCH_DIR", "MONITORED_DIRECTORY",
		"SQUELCH_API_URL", "API_URL",
		"SQUELCH_API_KEY", "API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaultsWithEnvironmentCredentials(t *testing.T) {
	clearCaptureEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SQUELCH_WATCH_DIR", "~/captures")
	t.Setenv("SQUELCH_API_URL", "https://transcribe.example.com/upload")
	t.Setenv("SQUELCH_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.WatchDir != filepath.Join(tempHome, "captures") {
		t.Fatalf("unexpected watch dir: %q", cfg.Paths.WatchDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "squelch", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Uploader.APIURL != "https://transcribe.example.com/upload" {
		t.Fatalf("unexpected api url: %q", cfg.Uploader.APIURL)
	}
	if cfg.Uploader.APIKey != "env-key" {
		t.Fatalf("unexpected api key: %q", cfg.Uploader.APIKey)
	}
	if cfg.Uploader.RequestTimeout != 60 {
		t.Fatalf("unexpected request timeout: %d", cfg.Uploader.RequestTimeout)
	}
	if cfg.Uploader.InsecureTLS {
		t.Fatal("expected TLS verification enabled by default")
	}
	if cfg.Watcher.SettleSeconds != 3 {
		t.Fatalf("unexpected settle seconds: %d", cfg.Watcher.SettleSeconds)
	}
	if cfg.Watcher.HistoryLimit != 25 {
		t.Fatalf("unexpected history limit: %d", cfg.Watcher.HistoryLimit)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log directory to exist: %v", err)
	}
}

func TestLoadLegacyEnvAliases(t *testing.T) {
	clearCaptureEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MONITORED_DIRECTORY", filepath.Join(tempHome, "recordings"))
	t.Setenv("API_URL", "https://legacy.example.com/upload")
	t.Setenv("API_KEY", "legacy-key")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.WatchDir != filepath.Join(tempHome, "recordings") {
		t.Fatalf("unexpected watch dir: %q", cfg.Paths.WatchDir)
	}
	if cfg.Uploader.APIURL != "https://legacy.example.com/upload" {
		t.Fatalf("unexpected api url: %q", cfg.Uploader.APIURL)
	}
	if cfg.Uploader.APIKey != "legacy-key" {
		t.Fatalf("unexpected api key: %q", cfg.Uploader.APIKey)
	}
}

func TestPrefixedEnvWinsOverLegacyAlias(t *testing.T) {
	clearCaptureEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SQUELCH_WATCH_DIR", filepath.Join(tempHome, "captures"))
	t.Setenv("SQUELCH_API_URL", "https://primary.example.com/upload")
	t.Setenv("API_URL", "https://legacy.example.com/upload")
	t.Setenv("SQUELCH_API_KEY", "primary-key")
	t.Setenv("API_KEY", "legacy-key")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Uploader.APIURL != "https://primary.example.com/upload" {
		t.Fatalf("expected prefixed env to win, got %q", cfg.Uploader.APIURL)
	}
	if cfg.Uploader.APIKey != "primary-key" {
		t.Fatalf("expected prefixed env to win, got %q", cfg.Uploader.APIKey)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCaptureEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "squelch.toml")

	type payload struct {
		Paths struct {
			WatchDir string `toml:"watch_dir"`
		} `toml:"paths"`
		Uploader struct {
			APIURL         string `toml:"api_url"`
			APIKey         string `toml:"api_key"`
			RequestTimeout int    `toml:"request_timeout"`
			InsecureTLS    bool   `toml:"insecure_tls"`
		} `toml:"uploader"`
		Watcher struct {
			SettleSeconds int `toml:"settle_seconds"`
			HistoryLimit  int `toml:"history_limit"`
		} `toml:"watcher"`
	}
	custom := payload{}
	custom.Paths.WatchDir = filepath.Join(tempDir, "captures")
	custom.Uploader.APIURL = "https://ingest.example.com/upload"
	custom.Uploader.APIKey = "file-key"
	custom.Uploader.RequestTimeout = 30
	custom.Uploader.InsecureTLS = true
	custom.Watcher.SettleSeconds = 7
	custom.Watcher.HistoryLimit = 100
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.WatchDir != custom.Paths.WatchDir {
		t.Fatalf("unexpected watch dir: %q", cfg.Paths.WatchDir)
	}
	if cfg.Uploader.RequestTimeout != 30 {
		t.Fatalf("unexpected request timeout: %d", cfg.Uploader.RequestTimeout)
	}
	if !cfg.Uploader.InsecureTLS {
		t.Fatal("expected insecure_tls from file")
	}
	if cfg.Watcher.SettleSeconds != 7 || cfg.Watcher.HistoryLimit != 100 {
		t.Fatalf("unexpected watcher settings: %+v", cfg.Watcher)
	}
}

func TestEnvDoesNotOverrideFileValues(t *testing.T) {
	clearCaptureEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "squelch.toml")
	t.Setenv("SQUELCH_API_KEY", "env-key")

	contents := `
[paths]
watch_dir = "` + filepath.Join(tempDir, "captures") + `"

[uploader]
api_url = "https://ingest.example.com/upload"
api_key = "file-key"
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Uploader.APIKey != "file-key" {
		t.Fatalf("file value should win over env fallback, got %q", cfg.Uploader.APIKey)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{
			name: "missing watch dir",
			contents: `
[uploader]
api_url = "https://ingest.example.com/upload"
api_key = "key"
`,
			fragment: "watch_dir is required",
		},
		{
			name: "missing api url",
			contents: `
[paths]
watch_dir = "/tmp/captures"

[uploader]
api_key = "key"
`,
			fragment: "api_url is required",
		},
		{
			name: "malformed api url",
			contents: `
[paths]
watch_dir = "/tmp/captures"

[uploader]
api_url = "not a url"
api_key = "key"
`,
			fragment: "not a valid URL",
		},
		{
			name: "missing api key",
			contents: `
[paths]
watch_dir = "/tmp/captures"

[uploader]
api_url = "https://ingest.example.com/upload"
`,
			fragment: "api_key is required",
		},
		{
			name: "bad log format",
			contents: `
[paths]
watch_dir = "/tmp/captures"

[uploader]
api_url = "https://ingest.example.com/upload"
api_key = "key"

[logging]
format = "xml"
`,
			fragment: "logging.format",
		},
		{
			name: "bad log level",
			contents: `
[paths]
watch_dir = "/tmp/captures"

[uploader]
api_url = "https://ingest.example.com/upload"
api_key = "key"

[logging]
level = "verbose"
`,
			fragment: "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearCaptureEnv(t)
			configPath := filepath.Join(t.TempDir(), "squelch.toml")
			if err := os.WriteFile(configPath, []byte(tc.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			_, _, _, err := config.Load(configPath)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("error %q does not mention %q", err, tc.fragment)
			}
		})
	}
}

func TestExpandPathResolvesTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/captures/site")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(tempHome, "captures", "site") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed map[string]any
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
}
