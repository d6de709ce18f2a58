// Package config handles loading and validating the orpheusdemo configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the orpheusdemo daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Transports TransportsConfig `mapstructure:"transports" yaml:"transports"`
	Demo       DemoConfig       `mapstructure:"demo" yaml:"demo"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds the page server and health check settings.
type ServerConfig struct {
	Host       string `mapstructure:"host" yaml:"host"`
	Port       int    `mapstructure:"port" yaml:"port"`
	HealthPort int    `mapstructure:"health_port" yaml:"health_port"`
}

// TransportsConfig holds the configuration for the optional transports. The
// HTTP page transport is always on.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc" yaml:"grpc"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

// DemoConfig selects and configures the synthesizer backend.
type DemoConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "placeholder"
	Seed    uint64 `mapstructure:"seed" yaml:"seed"`       // 0 seeds from the clock
	Title   string `mapstructure:"title" yaml:"title"`     // page title override
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"` // json, text
	File       string `mapstructure:"file" yaml:"file"`     // optional rotating log file
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./orpheusdemo.yaml, ./configs/orpheusdemo.yaml, /etc/orpheusdemo/orpheusdemo.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7861)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("demo.backend", "placeholder")
	v.SetDefault("demo.seed", 0)
	v.SetDefault("demo.title", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 64)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("orpheusdemo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/orpheusdemo")
	}

	// Environment variables: ORPHEUSDEMO_SERVER_PORT, ORPHEUSDEMO_LOGGING_LEVEL, etc.
	v.SetEnvPrefix("ORPHEUSDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ports and the backend name.
func (c *Config) Validate() error {
	var errs []error
	checkPort := func(name string, port int) {
		if port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s: port %d out of range", name, port))
		}
	}

	checkPort("server.port", c.Server.Port)
	checkPort("server.health_port", c.Server.HealthPort)
	if c.Transports.GRPC.Enabled {
		checkPort("transports.grpc.port", c.Transports.GRPC.Port)
	}
	if c.Server.Port == c.Server.HealthPort {
		errs = append(errs, fmt.Errorf("server.port and server.health_port must differ (both %d)", c.Server.Port))
	}
	if c.Demo.Backend != "placeholder" {
		errs = append(errs, fmt.Errorf("demo.backend: unknown backend %q", c.Demo.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WriteYAML dumps the effective configuration.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// SetupLogging configures the global slog logger based on config. When a log
// file is configured, records go to both stdout and the rotating file; the
// returned closer releases the file.
func SetupLogging(cfg LoggingConfig) (io.Closer, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}
