package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Tmdb    TmdbConfig    `mapstructure:"tmdb"`
	Data    DataConfig    `mapstructure:"data"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TmdbConfig holds metadata catalog configuration
type TmdbConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DataConfig holds local persistence configuration
type DataConfig struct {
	Dir string `mapstructure:"dir"` // Empty selects memory-only mode
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	ShowSpecials bool   `mapstructure:"show_specials"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Tmdb: TmdbConfig{},
		Data: DataConfig{
			Dir: defaultDataPath(),
		},
		UI: UIConfig{
			Theme:        "default",
			ShowSpecials: false,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tivi", "tivi.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tivi", "tivi.log")
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "tivi", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tivi", "data")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tivi")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tivi")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("TIVI")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveAPIKey updates just the API key in the configuration
func SaveAPIKey(key string) error {
	viper.Set("tmdb.api_key", key)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the API key is set
func (c *Config) IsConfigured() bool {
	return c.Tmdb.APIKey != ""
}
