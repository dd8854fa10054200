// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	ReviewLimit    int    `mapstructure:"review_limit"`     // 復習カード取得のデフォルト件数
	MaxReviewLimit int    `mapstructure:"max_review_limit"` // limit クエリの上限
	Timezone       string `mapstructure:"timezone"`         // "今日が期限" の日付境界に使うタイムゾーン
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Detail bool   `mapstructure:"detail"` // リクエスト/レスポンス詳細ログ
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

var Cfg Config

// Location は App.Timezone を解決します (未設定なら UTC)
func (c *Config) Location() *time.Location {
	if c == nil || c.App.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		// LoadConfig で検証済みのため通常は到達しない
		return time.UTC
	}
	return loc
}

func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL, APP_LOG_LEVEL
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	v.BindEnv("database.url", "DATABASE_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}
	if err := cfg.normalize(); err != nil {
		return err
	}
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Review Limit: %d (max %d)", Cfg.App.ReviewLimit, Cfg.App.MaxReviewLimit)
	log.Printf("Timezone: %s", Cfg.App.Timezone)

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("app.review_limit", DefaultAppReviewLimit)
	v.SetDefault("app.max_review_limit", DefaultAppMaxReviewLimit)
	v.SetDefault("app.timezone", DefaultTimezone)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("rate_limit.requests_per_second", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-User-ID"})
}

// normalize は不正値をデフォルトに戻し、タイムゾーンを検証します
func (c *Config) normalize() error {
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.App.ReviewLimit <= 0 {
		log.Printf("App review limit not set or invalid, using default '%d'", DefaultAppReviewLimit)
		c.App.ReviewLimit = DefaultAppReviewLimit
	}
	if c.App.MaxReviewLimit < c.App.ReviewLimit {
		c.App.MaxReviewLimit = c.App.ReviewLimit
	}
	if c.App.Timezone == "" {
		c.App.Timezone = DefaultTimezone
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = DefaultRateLimitBurst
	}
	if c.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	return nil
}
