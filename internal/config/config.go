// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver     string `mapstructure:"driver"`
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		SSLMode    string `mapstructure:"sslmode"`
		SearchPath string `mapstructure:"schema"`
		Path       string `mapstructure:"path"`
		LogLevel   string `mapstructure:"log_level"`
	} `mapstructure:"database"`
	JWT struct {
		Secret       string        `mapstructure:"secret"`
		ExpiryPeriod time.Duration `mapstructure:"expiry_period"`
	} `mapstructure:"jwt"`
	Server struct {
		Port         string        `mapstructure:"port"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`
	Sendgrid struct {
		APIKey   string `mapstructure:"api_key"`
		From     string `mapstructure:"from"`
		FromName string `mapstructure:"from_name"`
	} `mapstructure:"sendgrid"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	BaseURL string `mapstructure:"base_url"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"database.driver":      "DB_DRIVER",
	"database.host":        "DB_HOST",
	"database.port":        "DB_PORT",
	"database.user":        "DB_USER",
	"database.password":    "DB_PASSWORD",
	"database.name":        "DB_NAME",
	"database.sslmode":     "DB_SSLMODE",
	"database.schema":      "DB_SCHEMA",
	"database.path":        "DB_PATH",
	"database.log_level":   "DB_LOG_LEVEL",
	"jwt.secret":           "JWT_SECRET",
	"jwt.expiry_period":    "JWT_EXPIRY",
	"server.port":          "SERVER_PORT",
	"server.read_timeout":  "SERVER_READ_TIMEOUT",
	"server.write_timeout": "SERVER_WRITE_TIMEOUT",
	"sendgrid.api_key":     "SENDGRID_API_KEY",
	"sendgrid.from":        "SENDGRID_FROM",
	"sendgrid.from_name":   "SENDGRID_FROM_NAME",
	"log.level":            "LOG_LEVEL",
	"base_url":             "BASE_URL",
}

// Load reads configuration from defaults, an optional config.yaml, an
// optional .env file and the environment, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Database configuration
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "tracker")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.path", "tracker.db")
	v.SetDefault("database.log_level", "warn")

	// JWT configuration
	v.SetDefault("jwt.secret", "your-secret-key")
	v.SetDefault("jwt.expiry_period", 24*time.Hour)

	// Server configuration
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	// Sendgrid configuration
	v.SetDefault("sendgrid.from_name", "Tracker")

	v.SetDefault("log.level", "info")
	v.SetDefault("base_url", "http://localhost:8080")
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config error: unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config error: jwt secret required")
	}
	if c.Sendgrid.APIKey != "" && c.Sendgrid.From == "" {
		return fmt.Errorf("config error: SENDGRID_FROM required when SENDGRID_API_KEY is set")
	}
	return nil
}

// PostgresDSN builds the key/value connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.SearchPath,
	)
}

// PostgresURL builds a URL form DSN, which lib/pq accepts as well.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.SearchPath,
	)
}
