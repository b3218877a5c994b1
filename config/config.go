// Package config reads the application's configuration from environment
// variables, with defaults that match the docker-compose service names.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr  string
	RedisDB    int
	SessionTTL time.Duration

	ESAddr  string
	ESIndex string
}

// DSN assembles the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func Load() *Config {
	return &Config{
		Port: env("APP_PORT", "8080"),

		DBHost:     env("DB_HOST", "postgres"),
		DBPort:     env("DB_PORT", "5432"),
		DBUser:     env("DB_USER", "blog"),
		DBPassword: env("DB_PASSWORD", "blogpass"),
		DBName:     env("DB_NAME", "blogdb"),
		DBSSLMode:  env("DB_SSLMODE", "disable"),

		RedisAddr:  env("REDIS_ADDR", "redis:6379"),
		RedisDB:    envInt("REDIS_DB", 0),
		SessionTTL: time.Duration(envInt("SESSION_TTL_SECONDS", 7*24*3600)) * time.Second,

		ESAddr:  env("ES_ADDR", "http://elasticsearch:9200"),
		ESIndex: env("ES_INDEX", "posts"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
