package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeUploader()
	c.normalizeWatcher()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if c.Paths.WatchDir == "" {
		if value, ok := lookupFirstEnv("SQUELCH_WATCH_DIR", "MONITORED_DIRECTORY"); ok {
			c.Paths.WatchDir = value
		}
	}
	var err error
	if strings.TrimSpace(c.Paths.WatchDir) != "" {
		if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
			return fmt.Errorf("paths.watch_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeUploader() {
	if c.Uploader.APIURL == "" {
		if value, ok := lookupFirstEnv("SQUELCH_API_URL", "API_URL"); ok {
			c.Uploader.APIURL = value
		}
	}
	if c.Uploader.APIKey == "" {
		if value, ok := lookupFirstEnv("SQUELCH_API_KEY", "API_KEY"); ok {
			c.Uploader.APIKey = value
		}
	}
	c.Uploader.APIURL = strings.TrimSpace(c.Uploader.APIURL)
	c.Uploader.APIKey = strings.TrimSpace(c.Uploader.APIKey)
	if c.Uploader.RequestTimeout <= 0 {
		c.Uploader.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeWatcher() {
	if c.Watcher.SettleSeconds <= 0 {
		c.Watcher.SettleSeconds = defaultSettleSeconds
	}
	if c.Watcher.HistoryLimit <= 0 {
		c.Watcher.HistoryLimit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupFirstEnv(names ...string) (string, bool) {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}
