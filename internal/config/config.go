package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Search SearchConfig `mapstructure:"search"`
	Visa   VisaConfig   `mapstructure:"visa"`
	Log    LogConfig    `mapstructure:"log"`
	UI     UIConfig     `mapstructure:"ui"`
}

// APIConfig points at the country catalogue.
type APIConfig struct {
	CountriesBaseURL string `mapstructure:"countries_base_url"`
}

// HTTPConfig holds client settings.
type HTTPConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	LookupCacheTTL time.Duration `mapstructure:"lookup_cache_ttl"`
}

type SearchConfig struct {
	MaxSuggestions int `mapstructure:"max_suggestions"`
}

// VisaConfig optionally replaces the built-in visa table with a TOML file.
type VisaConfig struct {
	TablePath string `mapstructure:"table_path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Mouse bool `mapstructure:"mouse"`
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "atlas", "config.toml")
}

// NewViper returns a viper instance carrying defaults and env overrides. Env
// var overrides use prefix ATLAS_, so ATLAS_HTTP_TIMEOUT sets http.timeout and
// ATLAS_CONFIG sets the config file path.
func NewViper() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("api.countries_base_url", "https://restcountries.com/v3.1")
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.lookup_cache_ttl", "30m")
	v.SetDefault("search.max_suggestions", 8)
	v.SetDefault("visa.table_path", "")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "atlas", "atlas.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.mouse", true)

	v.SetConfigType("toml")

	v.SetEnvPrefix("ATLAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the config file (if any) into v and decodes the result. A file
// named explicitly via --config or ATLAS_CONFIG must exist; the default
// location is optional.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigFile(DefaultPath())
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.CountriesBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.countries_base_url: %q is not an absolute URL", c.API.CountriesBaseURL)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.HTTP.LookupCacheTTL <= 0 {
		return fmt.Errorf("http.lookup_cache_ttl must be positive, got %s", c.HTTP.LookupCacheTTL)
	}
	if c.Search.MaxSuggestions <= 0 {
		return fmt.Errorf("search.max_suggestions must be positive, got %d", c.Search.MaxSuggestions)
	}
	return nil
}

// Save writes cfg to path, creating the config directory if needed. Unless
// force is set an existing file is left alone and an error returned.
func Save(path string, cfg Config, force bool) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.countries_base_url", cfg.API.CountriesBaseURL)
	v.Set("http.timeout", cfg.HTTP.Timeout.String())
	v.Set("http.lookup_cache_ttl", cfg.HTTP.LookupCacheTTL.String())
	v.Set("search.max_suggestions", cfg.Search.MaxSuggestions)
	v.Set("visa.table_path", cfg.Visa.TablePath)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.mouse", cfg.UI.Mouse)

	write := v.SafeWriteConfigAs
	if force {
		write = v.WriteConfigAs
	}
	if err := write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
