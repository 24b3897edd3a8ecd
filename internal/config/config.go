package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource      string  `mapstructure:"DB_SOURCE"`
	ServerAddress string  `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string  `mapstructure:"LOG_LEVEL"`
	LogPretty     bool    `mapstructure:"LOG_PRETTY"`
	InputFile     string  `mapstructure:"INPUT_FILE"`
	InputSheet    string  `mapstructure:"INPUT_SHEET"`
	InputEncoding string  `mapstructure:"INPUT_ENCODING"`
	OutputFile    string  `mapstructure:"OUTPUT_FILE"`
	OutputFormat  string  `mapstructure:"OUTPUT_FORMAT"`
	MaxSlots      int     `mapstructure:"SLOT_MAX"`
	Pad           float64 `mapstructure:"SLOT_PAD"`
}

var defaults = map[string]any{
	"DB_SOURCE":      "",
	"SERVER_ADDRESS": "0.0.0.0:8080",
	"LOG_LEVEL":      "info",
	"LOG_PRETTY":     true,
	"INPUT_FILE":     "",
	"INPUT_SHEET":    "",
	"INPUT_ENCODING": "utf-8",
	"OUTPUT_FILE":    "src/app/data/prefSlots.ts",
	"OUTPUT_FORMAT":  "",
	"SLOT_MAX":       30,
	"SLOT_PAD":       8.0,
}

// LoadConfig reads configuration from app.env in path, then from the environment.
// A .env file in the same directory is loaded into the environment first; variables
// already set in the process win over it. Missing files are not an error.
func LoadConfig(path string) (config Config, err error) {
	dotenv := filepath.Join(path, ".env")
	if _, statErr := os.Stat(dotenv); statErr == nil {
		if err = godotenv.Load(dotenv); err != nil {
			return config, fmt.Errorf("config: failed to load %s: %w", dotenv, err)
		}
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}
	return config, nil
}
