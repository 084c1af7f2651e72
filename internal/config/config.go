package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string

	Timezone       string
	MigrationsPath string

	Redis RedisConfig

	CatalogCacheTTL   time.Duration
	MetricsAddr       string
	ReconcileInterval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled кеш выключен, если адрес не задан
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		TelegramToken:  v.GetString("TELEGRAM_TOKEN"),
		DBDSN:          v.GetString("DB_DSN"),
		Environment:    v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Timezone:       v.GetString("APP_TIMEZONE"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CatalogCacheTTL:   parseDuration(v.GetString("CATALOG_CACHE_TTL"), 2*time.Minute),
		MetricsAddr:       v.GetString("METRICS_ADDR"),
		ReconcileInterval: parseDuration(v.GetString("RECONCILE_INTERVAL"), 15*time.Minute),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// Location часовой пояс, в котором считаются все даты расписания
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("APP_TIMEZONE", "Asia/Tokyo")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "2m")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("RECONCILE_INTERVAL", "15m")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
