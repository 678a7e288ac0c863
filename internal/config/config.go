package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the backend origin used when nothing is configured
const DefaultServerURL = "https://premium-bank-backend.onrender.com"

const configName = ".pbank"

// Wire cancel policies
const (
	CancelPolicyRetain = "retain"
	CancelPolicyReset  = "reset"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Wire    WireConfig    `yaml:"wire" mapstructure:"wire"`
	Format  FormatConfig  `yaml:"format" mapstructure:"format"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ServerConfig contains backend connection settings
type ServerConfig struct {
	URL           string `yaml:"url" mapstructure:"url"`
	Timeout       string `yaml:"timeout" mapstructure:"timeout"`
	RetryAttempts int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryDelay    string `yaml:"retry_delay" mapstructure:"retry_delay"`
}

// AuthConfig holds the remembered session: the bearer token and the user as JSON
type AuthConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	User  string `yaml:"user" mapstructure:"user"`
}

// SessionConfig contains session lifetime settings
type SessionConfig struct {
	IdleTimeout string `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// WireConfig contains wire transfer settings
type WireConfig struct {
	CancelPolicy string `yaml:"cancel_policy" mapstructure:"cancel_policy"`
}

// FormatConfig contains output formatting settings
type FormatConfig struct {
	Default string `yaml:"default" mapstructure:"default"`
	Colors  bool   `yaml:"colors" mapstructure:"colors"`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

var (
	globalConfig *Config
	debug        bool
	outputFormat string
)

// Initialize loads the configuration from file and environment
func Initialize(configFile string) error {
	path := configFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get home directory: %w", err)
		}
		path = filepath.Join(home, configName+".yaml")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PBANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("server.url", "PBANK_API_URL", "PBANK_SERVER_URL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("could not read config file: %w", err)
			}
		}
		if err := createDefaultConfig(path); err != nil {
			return fmt.Errorf("could not create default config: %w", err)
		}
	}

	globalConfig = &Config{}
	if err := viper.Unmarshal(globalConfig); err != nil {
		return fmt.Errorf("could not unmarshal config: %w", err)
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.timeout", "60s")
	viper.SetDefault("server.retry_attempts", 2)
	viper.SetDefault("server.retry_delay", "1.5s")
	viper.SetDefault("auth.token", "")
	viper.SetDefault("auth.user", "")
	viper.SetDefault("session.idle_timeout", "5m")
	viper.SetDefault("wire.cancel_policy", CancelPolicyRetain)
	viper.SetDefault("format.default", "table")
	viper.SetDefault("format.colors", true)
	viper.SetDefault("log.level", "warn")
}

// defaultConfig is what a fresh config file contains
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:           DefaultServerURL,
			Timeout:       "60s",
			RetryAttempts: 2,
			RetryDelay:    "1.5s",
		},
		Auth: AuthConfig{},
		Session: SessionConfig{
			IdleTimeout: "5m",
		},
		Wire: WireConfig{
			CancelPolicy: CancelPolicyRetain,
		},
		Format: FormatConfig{
			Default: "table",
			Colors:  true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// createDefaultConfig writes a default configuration file readable only by the owner
func createDefaultConfig(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg := defaultConfig()
		globalConfig = &cfg
	}
	return globalConfig
}

// Path returns the config file in use
func Path() string {
	return viper.ConfigFileUsed()
}

// Set updates one key and writes the config file
func Set(key string, value interface{}) error {
	viper.Set(key, value)
	if err := writeConfig(); err != nil {
		return err
	}
	return reload()
}

// writeConfig persists viper's current state to the config file
func writeConfig() error {
	if viper.ConfigFileUsed() == "" {
		return fmt.Errorf("configuration not initialized")
	}
	return viper.WriteConfig()
}

// reload refreshes the typed view after viper has been changed
func reload() error {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("could not unmarshal config: %w", err)
	}
	globalConfig = cfg
	return nil
}

// SetDebug sets the debug mode
func SetDebug(enabled bool) {
	debug = enabled
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	return debug
}

// SetOutputFormat sets the output format
func SetOutputFormat(format string) {
	outputFormat = format
}

// GetOutputFormat returns the current output format
func GetOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	if globalConfig != nil && globalConfig.Format.Default != "" {
		return globalConfig.Format.Default
	}
	return "table"
}

// TimeoutDuration returns the per-attempt HTTP timeout
func (s ServerConfig) TimeoutDuration() time.Duration {
	return parseDuration(s.Timeout, 60*time.Second)
}

// RetryDelayDuration returns the pause between transport retries
func (s ServerConfig) RetryDelayDuration() time.Duration {
	return parseDuration(s.RetryDelay, 1500*time.Millisecond)
}

// IdleTimeoutDuration returns the inactivity logout delay; zero disables it
func (s SessionConfig) IdleTimeoutDuration() time.Duration {
	if strings.TrimSpace(s.IdleTimeout) == "0" {
		return 0
	}
	return parseDuration(s.IdleTimeout, 5*time.Minute)
}

// ResetOnCancel reports whether cancelling a wire transfer clears the whole draft
func (w WireConfig) ResetOnCancel() bool {
	return strings.EqualFold(strings.TrimSpace(w.CancelPolicy), CancelPolicyReset)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
