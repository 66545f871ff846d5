package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klarity-app/captis/internal/encoding"
	"github.com/spf13/viper"
)

// Config holds all captis configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	X11    X11Config    `mapstructure:"x11"`
	Output OutputConfig `mapstructure:"output"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig selects the zap level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// X11Config tunes the X11 backend. Ignored elsewhere.
type X11Config struct {
	// Display overrides $DISPLAY.
	Display string `mapstructure:"display"`
	// SHM enables the MIT-SHM fast path when the server supports it.
	SHM bool `mapstructure:"shm"`
}

// OutputConfig controls how captured frames are written
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Format   string `mapstructure:"format"`
	Quality  int    `mapstructure:"quality"`
	MaxWidth int    `mapstructure:"max_width"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig is the HTTP listener of `captis serve`
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		X11: X11Config{SHM: true},
		Output: OutputConfig{
			Dir:     ".",
			Format:  encoding.PNG,
			Quality: encoding.DefaultQuality,
			Prefix:  "capture",
		},
		Server: ServerConfig{Addr: "127.0.0.1:9000"},
	}
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("x11.display", d.X11.Display)
	v.SetDefault("x11.shm", d.X11.SHM)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.quality", d.Output.Quality)
	v.SetDefault("output.max_width", d.Output.MaxWidth)
	v.SetDefault("output.prefix", d.Output.Prefix)
	v.SetDefault("server.addr", d.Server.Addr)
}

// Load reads configuration from file and environment into v. An empty path
// searches captis.yaml in the user config dir and the working directory;
// a missing file is not an error unless path was given explicitly.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("captis")
		v.SetConfigType("yaml")
		v.AddConfigPath(getConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CAPTIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the capture and encoding layers cannot honour.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	if !encoding.Supports(c.Output.Format) {
		return fmt.Errorf("config: output.format must be one of %v, got %q", encoding.Formats(), c.Output.Format)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("config: output.quality must be within 1-100, got %d", c.Output.Quality)
	}
	if c.Output.MaxWidth < 0 {
		return fmt.Errorf("config: output.max_width must not be negative, got %d", c.Output.MaxWidth)
	}
	if c.Output.Prefix == "" {
		return errors.New("config: output.prefix must not be empty")
	}
	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/captis or the platform equivalent
func getConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "captis")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "captis")
}
