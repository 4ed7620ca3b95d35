// Package config loads CLI settings from an optional file and FORMERR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/reoring/formerr"
)

// EnvPrefix is the prefix of environment overrides, e.g. FORMERR_LOG_LEVEL.
const EnvPrefix = "FORMERR"

// ErrInvalid wraps every validation failure reported by Load and Validate.
var ErrInvalid = errors.New("formerr/config: invalid configuration")

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// Config holds the CLI settings. Flags override it after loading.
type Config struct {
	Log    Log    `mapstructure:"log"`
	Lang   string `mapstructure:"lang"`
	Output string `mapstructure:"output"` // json or yaml
	Layout string `mapstructure:"layout"` // nested, flat or dot
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:    Log{Level: "info"},
		Lang:   "en",
		Output: "json",
		Layout: "nested",
	}
}

// Load reads path (when non-empty) on top of the defaults and applies
// environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("lang", def.Lang)
	v.SetDefault("output", def.Output)
	v.SetDefault("layout", def.Layout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("formerr/config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("formerr/config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: output %q", ErrInvalid, c.Output)
	}
	switch c.Lang {
	case "en", "ja":
	default:
		return fmt.Errorf("%w: lang %q", ErrInvalid, c.Lang)
	}
	if _, err := formerr.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
