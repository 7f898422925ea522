package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/glfx"
	"gopkg.in/yaml.v3"
)

// Config is the glcaps configuration file.
type Config struct {
	// Backend names a registered backend. Empty selects backend.Default.
	Backend string `yaml:"backend"`

	// Version is the context version, "4.6" by default.
	Version string `yaml:"version"`

	// Output is "text" or "yaml".
	Output string `yaml:"output"`

	// LogLevel is a slog level name; empty keeps glfx silent.
	LogLevel string `yaml:"log_level"`

	MatrixStackDepth int   `yaml:"matrix_stack_depth"`
	UniformCacheSize int   `yaml:"uniform_cache_size"`
	ErrorChecks      *bool `yaml:"error_checks"`

	Smoke SmokeConfig `yaml:"smoke"`
}

// SmokeConfig configures the smoke command.
type SmokeConfig struct {
	// Objects is the number of buffers allocated.
	Objects int `yaml:"objects"`

	// Frames is the number of frames run while waiting for orphans.
	Frames int `yaml:"frames"`
}

func defaultConfig() Config {
	return Config{
		Version: "4.6",
		Output:  "text",
		Smoke:   SmokeConfig{Objects: 256, Frames: 50},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := glfx.ParseVersion(c.Version); err != nil {
		return err
	}
	switch c.Output {
	case "text", "yaml":
	default:
		return fmt.Errorf("output %q: want text or yaml", c.Output)
	}
	if c.Smoke.Objects < 0 || c.Smoke.Frames < 0 {
		return fmt.Errorf("smoke: objects and frames must not be negative")
	}
	return nil
}

// contextOptions maps the configuration onto glfx options.
func (c Config) contextOptions(logger *slog.Logger) []glfx.Option {
	var opts []glfx.Option
	if logger != nil {
		opts = append(opts, glfx.WithLogger(logger))
	}
	if c.MatrixStackDepth > 0 {
		opts = append(opts, glfx.WithMatrixStackDepth(c.MatrixStackDepth))
	}
	if c.UniformCacheSize > 0 {
		opts = append(opts, glfx.WithUniformCacheSize(c.UniformCacheSize))
	}
	if c.ErrorChecks != nil {
		opts = append(opts, glfx.WithErrorChecks(*c.ErrorChecks))
	}
	return opts
}

// logger returns a stderr logger at the configured level, or nil.
func (c Config) logger() (*slog.Logger, error) {
	if c.LogLevel == "" {
		return nil, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
