package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPath     string `mapstructure:"DB_PATH"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	AccessSecret   string `mapstructure:"ACCESS_SECRET"`
	RefreshSecret  string `mapstructure:"REFRESH_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	CookieSecure   bool   `mapstructure:"COOKIE_SECURE"`

	LoginRateLimit  int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`

	TibiaDataURL      string        `mapstructure:"TIBIADATA_URL"`
	OracleTimeout     time.Duration `mapstructure:"ORACLE_TIMEOUT"`
	OracleMaxAttempts uint          `mapstructure:"ORACLE_MAX_ATTEMPTS"`
	OracleCache       string        `mapstructure:"ORACLE_CACHE"`
	OracleCacheSize   int           `mapstructure:"ORACLE_CACHE_SIZE"`
	OracleCacheTTL    time.Duration `mapstructure:"ORACLE_CACHE_TTL"`

	LevelTablePath   string `mapstructure:"LEVEL_TABLE_PATH"`
	Timezone         string `mapstructure:"TIMEZONE"`
	DefaultDailyGoal int64  `mapstructure:"DEFAULT_DAILY_GOAL"`
}

var keys = []string{
	"HTTP_PORT", "GRPC_PORT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PATH",
	"REDIS_ADDR", "ACCESS_SECRET", "REFRESH_SECRET", "ALLOWED_ORIGINS", "COOKIE_SECURE",
	"LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW",
	"TIBIADATA_URL", "ORACLE_TIMEOUT", "ORACLE_MAX_ATTEMPTS", "ORACLE_CACHE", "ORACLE_CACHE_SIZE", "ORACLE_CACHE_TTL",
	"LEVEL_TABLE_PATH", "TIMEZONE", "DEFAULT_DAILY_GOAL",
}

// LoadConfig reads app.env from path when present. Environment variables
// always win over the file.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", "127.0.0.1:50051")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_PATH", "yonexus.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOGIN_RATE_LIMIT", 5)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("TIBIADATA_URL", "https://api.tibiadata.com")
	v.SetDefault("ORACLE_TIMEOUT", "10s")
	v.SetDefault("ORACLE_MAX_ATTEMPTS", 3)
	v.SetDefault("ORACLE_CACHE", "memory")
	v.SetDefault("ORACLE_CACHE_SIZE", 10000)
	v.SetDefault("ORACLE_CACHE_TTL", "0s")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("DEFAULT_DAILY_GOAL", 0)

	v.AutomaticEnv()
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// DSN builds the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	}
	return c.DBPath
}

func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Location resolves TIMEZONE, the zone that decides which day xp belongs to.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
