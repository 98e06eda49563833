package config

const (
	defaultLogDir         = "~/.local/share/squelch/logs"
	defaultRequestTimeout = 60
	defaultSettleSeconds  = 3
	defaultHistoryLimit   = 25
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a configuration seeded with built-in defaults. Paths are
// not yet expanded; Load handles normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Uploader: Uploader{
			RequestTimeout: defaultRequestTimeout,
		},
		Watcher: Watcher{
			SettleSeconds: defaultSettleSeconds,
			HistoryLimit:  defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
