// Package config loads zpersona's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/persona"
	"github.com/zarlcorp/zpersona/internal/pool"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Pools PoolsConfig `yaml:"pools"`

	// Age is the default age window; nil samples 0-100 years back.
	Age *age.Window `yaml:"age"`

	// MiddleNameRate is the chance, in percent, of a middle name.
	MiddleNameRate int `yaml:"middle_name_rate"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`

	// DataDir overrides the vault location.
	DataDir string `yaml:"data_dir"`

	path string
}

// PoolsConfig lists glob patterns for pool files.
type PoolsConfig struct {
	Given    []string `yaml:"given"`
	Surnames []string `yaml:"surnames"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns a configuration with defaults.
func Default() *Config {
	return &Config{
		MiddleNameRate: 50,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8080",
		},
	}
}

// Path returns the config file location: $ZPERSONA_CONFIG, else the XDG
// config dir.
func Path() string {
	if p := os.Getenv("ZPERSONA_CONFIG"); p != "" {
		return p
	}
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "zpersona", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zpersona", "config.yaml")
	}
	return filepath.Join(home, ".config", "zpersona", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// File returns the path the config was loaded from.
func (c *Config) File() string {
	return c.path
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MiddleNameRate < 0 || c.MiddleNameRate > 100 {
		return fmt.Errorf("middle_name_rate %d outside 0..100", c.MiddleNameRate)
	}
	if c.Age != nil {
		if err := c.Age.Validate(); err != nil {
			return fmt.Errorf("age: %w", err)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q: want text or json", c.Log.Format)
	}
	return nil
}

// Composer loads the configured pools and builds a composer.
func (c *Config) Composer(opts ...persona.Option) (*persona.Composer, error) {
	pools, err := pool.Load(c.Pools.Given, c.Pools.Surnames)
	if err != nil {
		return nil, err
	}
	opts = append([]persona.Option{persona.WithMiddleNameRate(c.MiddleNameRate)}, opts...)
	return persona.NewComposer(pools, opts...), nil
}

// Logger builds the slog handler described by Log.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
