package types

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds store selection, the remote source, executor sizing and
// logging settings.
type Config struct {
	Backend   string          `json:"backend" yaml:"backend" mapstructure:"backend"`
	BaseURL   string          `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Executors ExecutorsConfig `json:"executors" yaml:"executors" mapstructure:"executors"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// ExecutorsConfig sizes the worker pool and the scheduled facility used by
// the remote initializer, and bounds how long a fetch may take.
type ExecutorsConfig struct {
	FixedPoolSize     int           `json:"fixed_pool_size" yaml:"fixed_pool_size" mapstructure:"fixed_pool_size"`
	ScheduledPoolSize int           `json:"scheduled_pool_size" yaml:"scheduled_pool_size" mapstructure:"scheduled_pool_size"`
	Duration          time.Duration `json:"duration" yaml:"duration" mapstructure:"duration"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Supported log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Defaults applied by DefaultConfig.
const (
	DefaultBaseURL           = "https://kudago.com"
	DefaultFixedPoolSize     = 4
	DefaultScheduledPoolSize = 1
	DefaultDuration          = 30 * time.Second
	DefaultLogLevel          = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrBaseURLInvalid   = errors.New("base url must be an absolute http(s) url")
	ErrPoolSizeInvalid  = errors.New("pool size must be positive")
	ErrDurationInvalid  = errors.New("duration must be positive")
	ErrLogFormatUnknown = errors.New("unknown log format")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		BaseURL: DefaultBaseURL,
		Executors: ExecutorsConfig{
			FixedPoolSize:     DefaultFixedPoolSize,
			ScheduledPoolSize: DefaultScheduledPoolSize,
			Duration:          DefaultDuration,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: LogFormatConsole,
		},
	}
}

// Validate checks that the Config is well-formed. It returns an error
// wrapping one of the sentinels above.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return fmt.Errorf("%w: %q", ErrBackendUnknown, c.Backend)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBaseURLInvalid, c.BaseURL)
	}
	if c.Executors.FixedPoolSize <= 0 {
		return fmt.Errorf("fixed %w: %d", ErrPoolSizeInvalid, c.Executors.FixedPoolSize)
	}
	if c.Executors.ScheduledPoolSize <= 0 {
		return fmt.Errorf("scheduled %w: %d", ErrPoolSizeInvalid, c.Executors.ScheduledPoolSize)
	}
	if c.Executors.Duration <= 0 {
		return fmt.Errorf("%w: %s", ErrDurationInvalid, c.Executors.Duration)
	}
	switch c.Log.Format {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrLogFormatUnknown, c.Log.Format)
	}
	return nil
}
