package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Auth   AuthConfig   `mapstructure:"auth"`
	Output OutputConfig `mapstructure:"output"`
}

type AuthConfig struct {
	// CallbackTimeout bounds the wait for the browser consent redirect.
	CallbackTimeout time.Duration `mapstructure:"callback_timeout"`
	// ListenPort fixes the loopback callback port; 0 picks an ephemeral one.
	ListenPort int `mapstructure:"listen_port"`
}

type OutputConfig struct {
	Clipboard bool `mapstructure:"clipboard"`
}

var defaultConfig = Config{
	Auth: AuthConfig{
		CallbackTimeout: 5 * time.Minute,
		ListenPort:      0,
	},
	Output: OutputConfig{
		Clipboard: true,
	},
}

func Load(configPath string) (*Config, error) {
	// Set up viper
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")

	// Set default configuration path
	if configPath == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Read config file; a missing file just means defaults
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.callback_timeout", defaultConfig.Auth.CallbackTimeout)
	v.SetDefault("auth.listen_port", defaultConfig.Auth.ListenPort)
	v.SetDefault("output.clipboard", defaultConfig.Output.Clipboard)
}

func getDefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "working-wheel"), nil
}

func GetDefaultConfigDir() (string, error) {
	return getDefaultConfigDir()
}
