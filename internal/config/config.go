package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Host            string
	Port            string
	Env             string
	CertFile        string
	KeyFile         string
	TokenSecret     string
	TokenTTL        time.Duration
	CacheSize       int
	CacheMaxAge     time.Duration
	CacheSweepEvery time.Duration
	DBDriver        string
	DBDSN           string
	ImportCSV       string
	BackupJSON      string
	OpsAddr         string
}

func Load() Config {
	cfg := Config{
		Host:            getEnv("SERVER_HOST", "localhost"),
		Port:            getEnv("SERVER_PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		CertFile:        getEnv("CERT_FILE", "certs/server.crt"),
		KeyFile:         getEnv("KEY_FILE", "certs/server.key"),
		TokenSecret:     getEnv("TOKEN_SECRET", "dev-secret-change-in-production"),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 10*time.Second),
		CacheSize:       getEnvInt("CACHE_SIZE", 10),
		CacheMaxAge:     getEnvDuration("CACHE_MAX_AGE", time.Minute),
		CacheSweepEvery: getEnvDuration("CACHE_SWEEP_EVERY", 2*time.Minute),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBDSN:           getEnv("DB_DSN", "funkos.db"),
		ImportCSV:       getEnv("IMPORT_CSV", "data/funkos.csv"),
		BackupJSON:      getEnv("BACKUP_JSON", "data/backup.json"),
		OpsAddr:         getEnv("OPS_ADDR", ""),
	}

	if cfg.Env == "production" && cfg.TokenSecret == "dev-secret-change-in-production" {
		slog.Error("TOKEN_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// Addr returns the host:port the catalog server listens on.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using fallback", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using fallback", "key", key, "value", v)
		return fallback
	}
	return d
}
