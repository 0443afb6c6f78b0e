package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for the atomic analyzer service
type Config struct {
	Environment string          `mapstructure:"environment"`
	Debug       bool            `mapstructure:"debug"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Site        SiteConfig      `mapstructure:"site"`
	Analysis    AnalysisConfig  `mapstructure:"analysis"`
	Insights    InsightsConfig  `mapstructure:"insights"`
	Webhooks    WebhooksConfig  `mapstructure:"webhooks"`
	Email       EmailConfig     `mapstructure:"email"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	HTTPPort     int           `mapstructure:"http_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// SiteConfig describes the business site under analysis
type SiteConfig struct {
	URL          string        `mapstructure:"url"`
	Name         string        `mapstructure:"name"`
	BusinessType string        `mapstructure:"business_type"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// AnalysisConfig contains analysis engine configuration
type AnalysisConfig struct {
	Parallel             bool `mapstructure:"parallel"`
	ScoreChangeThreshold int  `mapstructure:"score_change_threshold"`
	RetentionDays        int  `mapstructure:"retention_days"`
}

// InsightsConfig contains AI insight generation configuration
type InsightsConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// WebhooksConfig contains outbound webhook configuration
type WebhooksConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
}

// EmailConfig contains email notification configuration
type EmailConfig struct {
	EnabledOnCritical bool   `mapstructure:"enabled_on_critical"`
	SendGridAPIKey    string `mapstructure:"sendgrid_api_key"`
	FromAddress       string `mapstructure:"from_address"`
	FromName          string `mapstructure:"from_name"`
	ToAddress         string `mapstructure:"to_address"`
}

// SchedulerConfig contains scheduled analysis configuration
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

// Load loads configuration from environment variables and config files
func Load(path string) (Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/atomic-analyzer")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ATOMIC_ANALYZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// General
	viper.SetDefault("environment", "development")
	viper.SetDefault("debug", false)

	// Server
	viper.SetDefault("server.http_port", 8090)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "atomic_analyzer")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.migrations_path", "file://migrations")

	// Site
	viper.SetDefault("site.url", "")
	viper.SetDefault("site.name", "")
	viper.SetDefault("site.fetch_timeout", "20s")
	viper.SetDefault("site.cache_ttl", "5m")
	viper.SetDefault("site.user_agent", "atomic-analyzer/1.0")
	viper.SetDefault("site.business_type", "")

	// Analysis
	viper.SetDefault("analysis.parallel", true)
	viper.SetDefault("analysis.score_change_threshold", 5)
	viper.SetDefault("analysis.retention_days", 365)

	// Insights
	viper.SetDefault("insights.api_key", "")
	viper.SetDefault("insights.base_url", "https://api.anthropic.com/v1/messages")
	viper.SetDefault("insights.model", "claude-3-sonnet-20240229")
	viper.SetDefault("insights.max_tokens", 2000)
	viper.SetDefault("insights.temperature", 0.7)
	viper.SetDefault("insights.timeout", "60s")

	// Webhooks
	viper.SetDefault("webhooks.timeout", "30s")
	viper.SetDefault("webhooks.max_concurrent", 8)
	viper.SetDefault("webhooks.rate_limit_per_min", 60)

	// Email
	viper.SetDefault("email.enabled_on_critical", false)
	viper.SetDefault("email.sendgrid_api_key", "")
	viper.SetDefault("email.from_address", "")
	viper.SetDefault("email.from_name", "Atomic Analyzer")
	viper.SetDefault("email.to_address", "")

	// Scheduler
	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.schedule", "0 3 * * *")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// DSN builds the Postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.Username, c.Password, c.SSLMode)
}
