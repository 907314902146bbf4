package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Notifier kinds
const (
	NotifierLog  = "log"
	NotifierLark = "lark"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// NotifierConfig selects and configures the notification emitter
type NotifierConfig struct {
	Kind        string        `mapstructure:"kind"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	Lark        LarkConfig    `mapstructure:"lark"`
}

// LarkConfig holds Lark messaging credentials
type LarkConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/memoflow.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("notifier.kind", NotifierLog)
	viper.SetDefault("notifier.send_timeout", 10*time.Second)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials come from the environment, never the file
	viper.BindEnv("notifier.lark.app_id", "LARK_APP_ID")
	viper.BindEnv("notifier.lark.app_secret", "LARK_APP_SECRET")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Notifier.Kind {
	case NotifierLog:
	case NotifierLark:
		if c.Notifier.Lark.AppID == "" {
			return fmt.Errorf("notifier.lark.app_id is required for the lark notifier")
		}
		if c.Notifier.Lark.AppSecret == "" {
			return fmt.Errorf("notifier.lark.app_secret is required for the lark notifier")
		}
	default:
		return fmt.Errorf("unknown notifier kind: %s", c.Notifier.Kind)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}
