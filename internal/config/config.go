package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

type SessionConfig struct {
	// File is the durable slot holding the serialized session.
	File string `mapstructure:"file"`
}

type GatewayConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envOverrides are the flat environment knobs honoured on top of the
// config file, for running against a non-default backend.
type envOverrides struct {
	APIBaseURL  string `envconfig:"CLINICA_API_URL"`
	SessionFile string `envconfig:"CLINICA_SESSION_FILE"`
	LogLevel    string `envconfig:"CLINICA_LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("api.base_url", "http://localhost:5000")
	viper.SetDefault("api.timeout", 10*time.Second)
	viper.SetDefault("api.requests_per_second", 10.0)
	viper.SetDefault("api.burst", 5)
	viper.SetDefault("session.file", defaultSessionFile())
	viper.SetDefault("gateway.port", 8080)
	viper.SetDefault("gateway.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults; anything
		// else (unreadable, malformed) is a real failure.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}
	if env.APIBaseURL != "" {
		config.API.BaseURL = env.APIBaseURL
	}
	if env.SessionFile != "" {
		config.Session.File = env.SessionFile
	}
	if env.LogLevel != "" {
		config.Log.Level = env.LogLevel
	}

	return &config, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "clinica", "user.json")
}
