// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/smartdevs17/evaluation-logger/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Service    ServiceConfig    `mapstructure:"service"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
	Server     ServerConfig     `mapstructure:"server"`
	Demo       DemoConfig       `mapstructure:"demo"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServiceConfig describes the remote evaluation service
type ServiceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	LogsPath       string        `mapstructure:"logs_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxErrorBody   int64         `mapstructure:"max_error_body"`
}

// MiddlewareConfig contains logging middleware defaults
type MiddlewareConfig struct {
	DefaultPackage string `mapstructure:"default_package"`
}

// ServerConfig contains dashboard HTTP server configuration
type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	Host              string        `mapstructure:"host"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	EnableMetrics     bool          `mapstructure:"enable_metrics"`
	EnableHealth      bool          `mapstructure:"enable_health"`
	EnableCompression bool          `mapstructure:"enable_compression"`
	HistorySize       int           `mapstructure:"history_size"`
}

// DemoConfig controls the demo log sequence
type DemoConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// LoggingConfig contains local logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stderr, stdout, file
	File   string `mapstructure:"file"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// EVAL_LOGGER_SERVICE_BASE_URL overrides service.base_url and so on
	v.SetEnvPrefix("EVAL_LOGGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if serviceURL := os.Getenv("EVALUATION_SERVICE_URL"); serviceURL != "" {
		config.Service.BaseURL = serviceURL
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "evaluation-logger")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Service defaults
	v.SetDefault("service.base_url", "http://20.244.56.144/evaluation-service")
	v.SetDefault("service.logs_path", "/logs")
	v.SetDefault("service.request_timeout", "10s")
	v.SetDefault("service.max_error_body", 64*1024)

	// Middleware defaults
	v.SetDefault("middleware.default_package", "api")

	// Server defaults
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.enable_metrics", true)
	v.SetDefault("server.enable_health", true)
	v.SetDefault("server.enable_compression", true)
	v.SetDefault("server.history_size", 50)

	// Demo defaults
	v.SetDefault("demo.delay", "500ms")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.file", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service base URL must be an absolute URL: %q", c.Service.BaseURL)
	}
	if c.Service.RequestTimeout <= 0 {
		return fmt.Errorf("service request timeout must be positive")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read and write timeouts must be positive")
	}
	if !models.Package(c.Middleware.DefaultPackage).IsValid() {
		return fmt.Errorf("middleware default package invalid: %s", c.Middleware.DefaultPackage)
	}
	if c.Server.HistorySize <= 0 {
		return fmt.Errorf("server history size must be positive")
	}
	if c.Demo.Delay < 0 {
		return fmt.Errorf("demo delay must not be negative")
	}
	return nil
}
