// Package config loads the server configuration from an optional YAML file,
// a .env file, and the process environment.
//
// Precedence, highest first: command line flags (applied by the caller),
// environment, config file, defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/tranphat180603/canvas-cli/internal/bundle"
	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8000"
)

// Config is the main configuration structure.
type Config struct {
	Canvas CanvasConfig `json:"canvas"`
	Bundle BundleConfig `json:"bundle"`
	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
}

// CanvasConfig configures the upstream client. BaseURL and AccessToken are
// only used for tool calls that carry no credentials of their own.
type CanvasConfig struct {
	BaseURL     string          `json:"baseURL,omitempty"`
	AccessToken string          `json:"accessToken,omitempty"`
	Timeout     metav1.Duration `json:"timeout,omitempty"`
	MaxAttempts int             `json:"maxAttempts,omitempty"`
	BackoffBase metav1.Duration `json:"backoffBase,omitempty"`
	// QPS limits requests per second across all credentials. Negative disables the limit.
	QPS   float32 `json:"qps,omitempty"`
	Burst int     `json:"burst,omitempty"`
}

// BundleConfig configures the delta bundle tool. Concurrency bounds the
// upstream fetches of one bundle.
type BundleConfig struct {
	Concurrency int `json:"concurrency,omitempty"`
}

// ServerConfig selects the MCP transport and its listen addresses.
type ServerConfig struct {
	Transport   string `json:"transport,omitempty"`
	Addr        string `json:"addr,omitempty"`
	MetricsAddr string `json:"metricsAddr,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level string `json:"level,omitempty"`
}

// Load reads the config file at path, if any, then applies the environment
// and the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CANVAS_API_URL", &cfg.Canvas.BaseURL)
	str("CANVAS_API_KEY", &cfg.Canvas.AccessToken)
	str("MCP_TRANSPORT", &cfg.Server.Transport)
	str("METRICS_ADDR", &cfg.Server.MetricsAddr)
	str("LOG_LEVEL", &cfg.Log.Level)

	var errs []error
	duration := func(key string, dst *metav1.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			dst.Duration = d
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration("CANVAS_TIMEOUT", &cfg.Canvas.Timeout)
	duration("CANVAS_BACKOFF_BASE", &cfg.Canvas.BackoffBase)
	integer("CANVAS_MAX_ATTEMPTS", &cfg.Canvas.MaxAttempts)
	integer("CANVAS_BURST", &cfg.Canvas.Burst)
	integer("CANVAS_BUNDLE_CONCURRENCY", &cfg.Bundle.Concurrency)
	if v, ok := lookup("CANVAS_QPS"); ok && v != "" {
		qps, err := strconv.ParseFloat(v, 32)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid CANVAS_QPS: %w", err))
		} else {
			cfg.Canvas.QPS = float32(qps)
		}
	}

	host, hostSet := lookup("HOST")
	port, portSet := lookup("PORT")
	if hostSet || portSet {
		if host == "" {
			host = defaultHost
		}
		if port == "" {
			port = defaultPort
		}
		cfg.Server.Addr = net.JoinHostPort(host, port)
	}
	if _, ok := lookup("MCP_TRANSPORT"); !ok && portSet && port != "" {
		cfg.Server.Transport = TransportSSE
	}

	return errors.Join(errs...)
}

func applyDefaults(cfg *Config) {
	def := canvas.DefaultOptions()
	if cfg.Canvas.Timeout.Duration == 0 {
		cfg.Canvas.Timeout.Duration = def.Timeout
	}
	if cfg.Canvas.MaxAttempts == 0 {
		cfg.Canvas.MaxAttempts = def.Retry.MaxAttempts
	}
	if cfg.Canvas.BackoffBase.Duration == 0 {
		cfg.Canvas.BackoffBase.Duration = def.Retry.BaseDelay
	}
	if cfg.Canvas.QPS == 0 {
		cfg.Canvas.QPS = def.QPS
	}
	if cfg.Canvas.Burst == 0 {
		cfg.Canvas.Burst = def.Burst
	}
	if cfg.Bundle.Concurrency == 0 {
		cfg.Bundle.Concurrency = bundle.DefaultConcurrency
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = net.JoinHostPort(defaultHost, defaultPort)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.BaseURL != "" {
		u, err := url.Parse(c.Canvas.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("canvas.baseURL must be an absolute http(s) URL, got %q", c.Canvas.BaseURL))
		}
	}
	if c.Canvas.Timeout.Duration < 0 {
		errs = append(errs, errors.New("canvas.timeout must not be negative"))
	}
	if c.Canvas.MaxAttempts < 1 {
		errs = append(errs, errors.New("canvas.maxAttempts must be at least 1"))
	}
	if c.Canvas.Burst < 1 {
		errs = append(errs, errors.New("canvas.burst must be at least 1"))
	}
	if c.Bundle.Concurrency < 1 {
		errs = append(errs, errors.New("bundle.concurrency must be at least 1"))
	}
	switch c.Server.Transport {
	case TransportStdio, TransportSSE:
	default:
		errs = append(errs, fmt.Errorf("server.transport must be %q or %q, got %q", TransportStdio, TransportSSE, c.Server.Transport))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Credentials returns the fallback credentials.
func (c *Config) Credentials() types.AuthContext {
	return types.AuthContext{BaseURL: c.Canvas.BaseURL, AccessToken: c.Canvas.AccessToken}
}

// CanvasOptions returns the client options described by the config.
func (c *Config) CanvasOptions() canvas.Options {
	opts := canvas.DefaultOptions()
	opts.Timeout = c.Canvas.Timeout.Duration
	opts.Retry.MaxAttempts = c.Canvas.MaxAttempts
	opts.Retry.BaseDelay = c.Canvas.BackoffBase.Duration
	opts.QPS = c.Canvas.QPS
	opts.Burst = c.Canvas.Burst
	return opts
}

// Logger builds a JSON logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}
	return level, nil
}
