package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUploader(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/squelch/config.toml"
		}
		return fmt.Errorf("paths.watch_dir is required. Set SQUELCH_WATCH_DIR env var or edit %s (create with 'squelch config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateUploader() error {
	if c.Uploader.APIURL == "" {
		return errors.New("uploader.api_url is required (or set SQUELCH_API_URL)")
	}
	parsed, err := url.Parse(c.Uploader.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("uploader.api_url %q is not a valid URL", c.Uploader.APIURL)
	}
	if c.Uploader.APIKey == "" {
		return errors.New("uploader.api_key is required (or set SQUELCH_API_KEY)")
	}
	if c.Uploader.RequestTimeout <= 0 {
		return errors.New("uploader.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.SettleSeconds <= 0 {
		return errors.New("watcher.settle_seconds must be positive")
	}
	if c.Watcher.HistoryLimit <= 0 {
		return errors.New("watcher.history_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
