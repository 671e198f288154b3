// Package config loads gosolver settings from YAML with environment
// overrides and validates them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxFileSize caps the config file read (1MB).
const MaxFileSize = 1024 * 1024

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GOSOLVER_"

var ErrFileTooLarge = errors.New("config: file too large")

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Speech SpeechConfig `yaml:"speech"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required,hostname_port"`
	Debug        bool          `yaml:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`

	// RateLimit is requests per second across the process; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type SpeechConfig struct {
	Enabled bool `yaml:"enabled"`
	// Command is the synthesizer binary; empty means look up espeak-ng, then espeak.
	Command string  `yaml:"command"`
	Voice   string  `yaml:"voice" validate:"required"`
	Pitch   float64 `yaml:"pitch" validate:"gte=0,lte=2"`
	Rate    float64 `yaml:"rate" validate:"gt=0,lte=4"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit:    20,
			Burst:        40,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Speech: SpeechConfig{
			Enabled: true,
			Voice:   "es",
			Pitch:   1,
			Rate:    1,
		},
	}
}

// Load returns the defaults overlaid with the file at path (if path is not
// empty) and then with GOSOLVER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		defer f.Close()
		if err := Decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads YAML into cfg, keeping fields the document does not set.
// Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return err
	}
	if len(data) > MaxFileSize {
		return ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("ADDR", &cfg.Server.Addr)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("SPEECH_COMMAND", &cfg.Speech.Command)
	str("SPEECH_VOICE", &cfg.Speech.Voice)

	if v, ok := lookup(EnvPrefix + "DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sDEBUG: %w", EnvPrefix, err)
		}
		cfg.Server.Debug = b
	}
	if v, ok := lookup(EnvPrefix + "SPEECH_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sSPEECH_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Speech.Enabled = b
	}
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %sRATE_LIMIT: %w", EnvPrefix, err)
		}
		cfg.Server.RateLimit = f
	}
	return nil
}

// SlogLevel maps Level to a slog level; unknown names mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	logger, _ := c.NewLeveledLogger(w)
	return logger
}

// NewLeveledLogger is NewLogger with the level held in a LevelVar, so a
// config reload can change it while the process runs.
func (c LogConfig) NewLeveledLogger(w io.Writer) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(c.SlogLevel())
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), level
	}
	return slog.New(slog.NewTextHandler(w, opts)), level
}
