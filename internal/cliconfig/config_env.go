package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnvConfig applies configuration from environment variables
// (EXPOPUSH_*, plus the conventional EXPO_ACCESS_TOKEN). It respects flags
// that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	token := os.Getenv("EXPOPUSH_ACCESS_TOKEN")
	if token == "" {
		token = os.Getenv("EXPO_ACCESS_TOKEN")
	}

	s.setString("base-url", os.Getenv("EXPOPUSH_BASE_URL"), &cfg.BaseURL)
	s.setCredential(token, os.Getenv("EXPOPUSH_ACCESS_TOKEN_FILE"), cfg)
	s.setString("log-level", os.Getenv("EXPOPUSH_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("ledger", os.Getenv("EXPOPUSH_LEDGER"), &cfg.Ledger)
	s.setString("ledger-dir", os.Getenv("EXPOPUSH_LEDGER_DIR"), &cfg.LedgerDir)
	s.setString("redis-addr", os.Getenv("EXPOPUSH_REDIS_ADDR"), &cfg.RedisAddr)
	s.setString("redis-password", os.Getenv("EXPOPUSH_REDIS_PASSWORD"), &cfg.RedisPassword)
	s.setString("redis-key", os.Getenv("EXPOPUSH_REDIS_KEY"), &cfg.RedisKey)
	s.setString("metrics-textfile", os.Getenv("EXPOPUSH_METRICS_TEXTFILE"), &cfg.MetricsTextfile)

	if err := s.setDuration("timeout", os.Getenv("EXPOPUSH_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}

	if err := s.setIntFromString("gzip-threshold", os.Getenv("EXPOPUSH_GZIP_THRESHOLD"), &cfg.GzipThreshold); err != nil {
		return err
	}
	if err := s.setIntFromString("chunk-size", os.Getenv("EXPOPUSH_CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}
	if err := s.setIntFromString("concurrency", os.Getenv("EXPOPUSH_CONCURRENCY"), &cfg.Concurrency); err != nil {
		return err
	}
	if err := s.setIntFromString("redis-db", os.Getenv("EXPOPUSH_REDIS_DB"), &cfg.RedisDB); err != nil {
		return err
	}

	return s.setBoolFromString("use-fcm-v1", os.Getenv("EXPOPUSH_USE_FCM_V1"), &cfg.UseFCMv1)
}
