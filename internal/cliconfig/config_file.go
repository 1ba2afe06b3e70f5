package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML and
// YAML friendly. Pointer fields distinguish an absent key from an explicit
// zero.
type FileConfig struct {
	BaseURL         string `toml:"base_url" yaml:"base_url"`
	AccessToken     string `toml:"access_token" yaml:"access_token"`
	AccessTokenFile string `toml:"access_token_file" yaml:"access_token_file"`
	Timeout         string `toml:"timeout" yaml:"timeout"`
	LogLevel        string `toml:"log_level" yaml:"log_level"`
	UseFCMv1        *bool  `toml:"use_fcm_v1" yaml:"use_fcm_v1"`
	GzipThreshold   *int   `toml:"gzip_threshold" yaml:"gzip_threshold"`
	ChunkSize       *int   `toml:"chunk_size" yaml:"chunk_size"`
	Concurrency     *int   `toml:"concurrency" yaml:"concurrency"`
	Ledger          string `toml:"ledger" yaml:"ledger"`
	LedgerDir       string `toml:"ledger_dir" yaml:"ledger_dir"`
	RedisAddr       string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string `toml:"redis_password" yaml:"redis_password"`
	RedisDB         *int   `toml:"redis_db" yaml:"redis_db"`
	RedisKey        string `toml:"redis_key" yaml:"redis_key"`
	MetricsTextfile string `toml:"metrics_textfile" yaml:"metrics_textfile"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml %s: %w", path, err)
		}
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.expopush/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".expopush", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setCredential(fc.AccessToken, fc.AccessTokenFile, cfg)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("ledger", fc.Ledger, &cfg.Ledger)
	s.setString("ledger-dir", fc.LedgerDir, &cfg.LedgerDir)
	s.setString("redis-addr", fc.RedisAddr, &cfg.RedisAddr)
	s.setString("redis-password", fc.RedisPassword, &cfg.RedisPassword)
	s.setString("redis-key", fc.RedisKey, &cfg.RedisKey)
	s.setString("metrics-textfile", fc.MetricsTextfile, &cfg.MetricsTextfile)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	s.setInt("gzip-threshold", fc.GzipThreshold, &cfg.GzipThreshold)
	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)
	s.setInt("concurrency", fc.Concurrency, &cfg.Concurrency)
	s.setInt("redis-db", fc.RedisDB, &cfg.RedisDB)

	s.setBoolString("use-fcm-v1", fc.UseFCMv1, &cfg.UseFCMv1)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
