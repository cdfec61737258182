package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Alert    AlertConfig    `mapstructure:"alert"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx connection string.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// AlertConfig holds alert dispatch settings.
// An empty webhook URL puts the webhook channel in local mode; an empty
// email API key disables the email channel entirely.
type AlertConfig struct {
	WebhookURL   string        `mapstructure:"webhook_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Email        EmailConfig   `mapstructure:"email"`
}

// EmailConfig holds mail transport settings
type EmailConfig struct {
	APIKey    string `mapstructure:"api_key"`
	From      string `mapstructure:"from"`
	Recipient string `mapstructure:"recipient"`
}

// NATSConfig holds live broadcast settings. An empty URL disables broadcasting.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "aisiem")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.database", "aisiem")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("alert.poll_interval", "30s")
	v.SetDefault("alert.email.api_key", "")
	v.SetDefault("alert.email.from", "alerts@aisiem.local")
	v.SetDefault("alert.email.recipient", "")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "alerts.live")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read from config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config
	v.SetEnvPrefix("DASHBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
