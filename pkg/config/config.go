package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port" default:"8000"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	BusyTimeout  int    `mapstructure:"busy_timeout"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RemindersConfig controls the alarm dispatcher behaviour.
// ExactAlarms mirrors the host capability check: when false the dispatcher
// only grants inexact (jittered) alarms and the scheduler falls back.
type RemindersConfig struct {
	ExactAlarms   bool          `mapstructure:"exact_alarms"`
	DefaultHour   int           `mapstructure:"default_hour"`
	InexactWindow time.Duration `mapstructure:"inexact_window"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// If CONFIG_FILE environment variable is set, use it
	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	// Initialize viper
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("database.path", "habits.db")
	v.SetDefault("database.busy_timeout", 5000)
	v.SetDefault("reminders.exact_alarms", true)
	v.SetDefault("reminders.default_hour", 9)
	v.SetDefault("reminders.inexact_window", 15*time.Minute)
	v.SetDefault("logging.level", "info")

	// If configPath is provided, use it directly
	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		ext := filepath.Ext(file)
		name := strings.TrimSuffix(file, ext)

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		// Fallback to default locations
		_, filename, _, _ := runtime.Caller(0)
		pkgConfigDir := filepath.Dir(filename)
		projectRoot := filepath.Join(pkgConfigDir, "..", "..")

		v.AddConfigPath(pkgConfigDir)
		v.AddConfigPath(projectRoot)
		v.AddConfigPath(filepath.Join(projectRoot, "pkg", "config"))
		v.SetConfigName("config")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error loading config file: %v", err)
		}
		// No file found: run on defaults plus env overrides
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Override with environment variables if they exist
	envVars := map[string]string{
		"server.port":              "SERVER_PORT",
		"server.mode":              "SERVER_MODE",
		"server.timeout":           "SERVER_TIMEOUT",
		"database.path":            "DB_PATH",
		"database.busy_timeout":    "DB_BUSY_TIMEOUT",
		"reminders.exact_alarms":   "REMINDERS_EXACT_ALARMS",
		"reminders.default_hour":   "REMINDERS_DEFAULT_HOUR",
		"reminders.inexact_window": "REMINDERS_INEXACT_WINDOW",
		"logging.level":            "LOG_LEVEL",
		"logging.format":           "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Handle special cases for type conversion
			switch envVar {
			case "SERVER_PORT", "DB_BUSY_TIMEOUT", "REMINDERS_DEFAULT_HOUR":
				if intVal, err := strconv.Atoi(value); err == nil {
					v.Set(configKey, intVal)
				}
			case "SERVER_TIMEOUT", "REMINDERS_INEXACT_WINDOW":
				if d, err := time.ParseDuration(value); err == nil {
					v.Set(configKey, d)
				}
			case "REMINDERS_EXACT_ALARMS":
				if value == "true" || value == "1" {
					v.Set(configKey, true)
				} else if value == "false" || value == "0" {
					v.Set(configKey, false)
				}
			default:
				v.Set(configKey, value)
			}
		}
	}

	// Unmarshal config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return &config, nil
}
