package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	Debug      bool   `mapstructure:"DEBUG"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	CacheShortTTL time.Duration `mapstructure:"CACHE_SHORT_TTL"`
	CacheLongTTL  time.Duration `mapstructure:"CACHE_LONG_TTL"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	AdminLogin    string `mapstructure:"ADMIN_LOGIN"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
}

var AppConfig *Config

// defaults registers every key so AutomaticEnv can resolve it during Unmarshal.
var defaults = map[string]interface{}{
	"SERVER_PORT":      "8080",
	"DEBUG":            false,
	"DATABASE_DRIVER":  "postgres",
	"DATABASE_URL":     "",
	"JWT_SECRET":       "",
	"JWT_TTL":          "168h",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"REDIS_DB":         0,
	"CACHE_SHORT_TTL":  "5m",
	"CACHE_LONG_TTL":   "60m",
	"RATE_LIMIT_RPS":   10,
	"RATE_LIMIT_BURST": 20,
	"ADMIN_LOGIN":      "",
	"ADMIN_PASSWORD":   "",
	"ADMIN_EMAIL":      "",
}

// Load reads dir/.env (if present) and the environment into a Config.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return &cfg, nil
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to load configuration, %v", err)
	}
	AppConfig = cfg
}
