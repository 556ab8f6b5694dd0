package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgallion1/qbank/internal/binder"
	"github.com/dgallion1/qbank/internal/extract"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Extraction
	Slug             string  `mapstructure:"slug"`
	OutDir           string  `mapstructure:"out_dir"`
	PublicPrefix     string  `mapstructure:"public_prefix"`
	AnswerWindow     int     `mapstructure:"answer_window"`
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`
	IDWidth          int     `mapstructure:"id_width"`

	LogLevel string `mapstructure:"log_level"`

	// Service
	Port           string        `mapstructure:"port"`
	APIKey         string        `mapstructure:"api_key"`
	DataDir        string        `mapstructure:"data_dir"` // Datasets live in DataDir/{slug}
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	WorkerCount    int           `mapstructure:"worker_count"`
	MaxQueueSize   int           `mapstructure:"max_queue_size"`
	JobTTL         time.Duration `mapstructure:"job_ttl"`
	StatsWindow    time.Duration `mapstructure:"stats_window"`
}

var defaults = map[string]any{
	"slug":              "",
	"out_dir":           "",
	"public_prefix":     "/qbank",
	"answer_window":     extract.DefaultAnswerWindow,
	"overlap_threshold": binder.DefaultOverlapThreshold,
	"id_width":          4,
	"log_level":         "info",
	"port":              "8090",
	"api_key":           "",
	"data_dir":          "./data",
	"max_upload_bytes":  int64(52428800), // 50MB
	"worker_count":      2,
	"max_queue_size":    16,
	"job_ttl":           time.Hour,
	"stats_window":      time.Hour,
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"slug":              "slug",
	"out":               "out_dir",
	"public-prefix":     "public_prefix",
	"answer-window":     "answer_window",
	"overlap-threshold": "overlap_threshold",
	"id-width":          "id_width",
	"log-level":         "log_level",
	"port":              "port",
	"data-dir":          "data_dir",
	"workers":           "worker_count",
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, _ := Load("", nil)
	return cfg
}

// Load resolves configuration from defaults, an optional YAML file, QBANK_
// environment variables and the flags in fs that were set explicitly, in
// increasing priority. A missing cfgFile is an error; an empty one is skipped.
func Load(cfgFile string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("QBANK")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	if c.AnswerWindow < 1 {
		return fmt.Errorf("%w: answer_window must be at least 1, got %d", ErrInvalidConfig, c.AnswerWindow)
	}
	if c.OverlapThreshold <= 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("%w: overlap_threshold must be in (0, 1], got %v", ErrInvalidConfig, c.OverlapThreshold)
	}
	if c.IDWidth < 1 || c.IDWidth > 9 {
		return fmt.Errorf("%w: id_width must be 1-9, got %d", ErrInvalidConfig, c.IDWidth)
	}
	if !strings.HasPrefix(c.PublicPrefix, "/") {
		return fmt.Errorf("%w: public_prefix must start with /, got %q", ErrInvalidConfig, c.PublicPrefix)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateExtract checks the settings a single conversion needs.
func (c Config) ValidateExtract() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !extract.ValidSlug(c.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase letters, digits and dashes", ErrInvalidConfig, c.Slug)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir is required", ErrInvalidConfig)
	}
	return nil
}

// ValidateServe checks the settings of the HTTP service.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%w: port %q", ErrInvalidConfig, c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("%w: max_queue_size must be positive", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, s)
}
