// Package config loads tlumach settings from an optional YAML file, an
// optional .env file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/tlumach/internal/provider"
)

const EnvPrefix = "TLUMACH"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ProviderConfig struct {
	Name            string        `mapstructure:"name"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

type ClientConfig struct {
	RelayURL string        `mapstructure:"relay_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// New returns a viper instance with defaults and environment bindings in
// place. Callers bind flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("provider.name", provider.NameGemini)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.temperature", 0.3)
	v.SetDefault("provider.max_output_tokens", 2048)
	v.SetDefault("provider.timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.service_name", "tlumach")

	v.SetDefault("client.relay_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 60*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The provider key keeps its conventional name as well.
	_ = v.BindEnv("provider.api_key", EnvPrefix+"_PROVIDER_API_KEY", "GEMINI_API_KEY")

	return v
}

// Load reads .env (if present), then cfgFile or tlumach.yaml from the
// working directory or ~/.config/tlumach, and decodes the result. An
// explicitly named file must exist.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("tlumach")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tlumach"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no request could succeed with. A missing API key
// is not one of them: that is reported per request.
func (c *Config) Validate() error {
	c.Provider.Name = strings.ToLower(strings.TrimSpace(c.Provider.Name))
	if !slices.Contains(provider.Names(), c.Provider.Name) {
		return fmt.Errorf("config: unknown provider %q (want one of %s)", c.Provider.Name, strings.Join(provider.Names(), ", "))
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("config: provider.temperature must be within [0, 2], got %v", c.Provider.Temperature)
	}
	if c.Provider.MaxOutputTokens <= 0 {
		return fmt.Errorf("config: provider.max_output_tokens must be positive, got %d", c.Provider.MaxOutputTokens)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("config: provider.timeout must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive")
	}
	return nil
}
