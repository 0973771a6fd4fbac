// Package config loads application configuration from an optional config
// file, environment variables and a local .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingBackendURL reports the one configuration error that blocks the
// import flow entirely: no backend endpoint to exchange and fetch against.
var ErrMissingBackendURL = errors.New("backend base URL is not configured")

// Defaults mirroring the mobile client this flow came from.
const (
	DefaultWindowDays = 7
	DefaultTimeZone   = "America/Montreal"
	DefaultTimeout    = 15 * time.Second
)

// Config is the application configuration.
type Config struct {
	// BackendBaseURL is the campus backend endpoint, e.g.
	// "https://api.example.edu/api/google". Required unless ProviderDirect
	// is set.
	BackendBaseURL string `mapstructure:"backendBaseURL"`

	// ProviderDirect switches to the token-based variant: catalog and
	// import calls go straight to the calendar provider using the access
	// token as the session credential.
	ProviderDirect bool `mapstructure:"providerDirect"`

	// GoogleClientID is the OAuth client used to build the consent URL.
	GoogleClientID string `mapstructure:"googleClientID"`

	// WindowDays is the forward-looking import window.
	WindowDays int `mapstructure:"windowDays"`

	// TimeZone is the IANA zone events are evaluated in.
	TimeZone string `mapstructure:"timeZone"`

	// RequestTimeout bounds a single backend request.
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`

	// StateDir overrides where the session id is persisted.
	StateDir string `mapstructure:"stateDir"`

	// LogLevel sets the slog level: debug, info, warn, error.
	LogLevel string `mapstructure:"logLevel"`

	// MetricsAddr is the listen address of the /metrics endpoint served by
	// the watch command.
	MetricsAddr string `mapstructure:"metricsAddr"`

	// Instrumentation controls metrics and tracing export.
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation"`
}

// InstrumentationConfig selects the telemetry exporters.
type InstrumentationConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MetricsExporter   string  `mapstructure:"metricsExporter"`
	TracingExporter   string  `mapstructure:"tracingExporter"`
	OTLPEndpoint      string  `mapstructure:"otlpEndpoint"`
	OTLPInsecure      bool    `mapstructure:"otlpInsecure"`
	TraceSamplingRate float64 `mapstructure:"traceSamplingRate"`
}

// Load reads the configuration. A .env file in the working directory is
// honored for local development; environment variables use the NEXTCLASS_
// prefix (NEXTCLASS_BACKEND_BASE_URL and so on); configFile, when given,
// points at an explicit config file, otherwise well-known locations are
// searched.
func Load(configFile string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NEXTCLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backendBaseURL", "")
	v.SetDefault("providerDirect", false)
	v.SetDefault("googleClientID", "")
	v.SetDefault("windowDays", DefaultWindowDays)
	v.SetDefault("timeZone", DefaultTimeZone)
	v.SetDefault("requestTimeout", DefaultTimeout)
	v.SetDefault("stateDir", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("metricsAddr", ":9090")
	v.SetDefault("instrumentation.enabled", true)
	v.SetDefault("instrumentation.metricsExporter", "prometheus")
	v.SetDefault("instrumentation.tracingExporter", "none")
	v.SetDefault("instrumentation.otlpEndpoint", "")
	v.SetDefault("instrumentation.otlpInsecure", false)
	v.SetDefault("instrumentation.traceSamplingRate", 0.1)

	// Bind every key so AutomaticEnv sees those absent from the file.
	for _, key := range []string{
		"backendBaseURL", "providerDirect", "googleClientID", "windowDays",
		"timeZone", "requestTimeout", "stateDir", "logLevel", "metricsAddr",
	} {
		if err := v.BindEnv(key, "NEXTCLASS_"+camelToEnv(key)); err != nil {
			return nil, fmt.Errorf("failed to prepare config: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", configFile, err)
		}
	} else {
		v.SetConfigName("nextclass")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/nextclass")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for the import flow.
func (c *Config) Validate() error {
	if !c.ProviderDirect && c.BackendBaseURL == "" {
		return ErrMissingBackendURL
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("window days must be positive, got %d", c.WindowDays)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return nil
}

// camelToEnv turns "backendBaseURL" into "BACKEND_BASE_URL".
func camelToEnv(key string) string {
	var out []rune
	var prevUpper bool
	for i, r := range key {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 && !prevUpper {
			out = append(out, '_')
		}
		if !upper && r >= 'a' {
			r = r - 'a' + 'A'
		}
		out = append(out, r)
		prevUpper = upper
	}
	return string(out)
}
