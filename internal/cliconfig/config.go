package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/expopush/pkg/log"
	"github.com/bft-labs/expopush/pkg/push"
	"github.com/bft-labs/expopush/pkg/sender"
)

// Ledger backends.
const (
	LedgerFile  = "file"
	LedgerRedis = "redis"
	LedgerNone  = "none"
)

// Config holds CLI configuration for expopush.
type Config struct {
	BaseURL         string
	AccessToken     string
	AccessTokenFile string

	Timeout  time.Duration
	LogLevel string

	// UseFCMv1 is "", "true" or "false"; empty leaves the service default.
	UseFCMv1      string
	GzipThreshold int
	ChunkSize     int
	Concurrency   int

	Ledger        string
	LedgerDir     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	MetricsTextfile string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:       sender.DefaultBaseURL,
		Timeout:       30 * time.Second,
		LogLevel:      "info",
		GzipThreshold: sender.DefaultGzipThreshold,
		ChunkSize:     push.MaxMessagesPerRequest,
		Concurrency:   1,
		Ledger:        LedgerFile,
		LedgerDir:     "", // Derived from the home directory during Validate
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = sender.DefaultBaseURL
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base-url must be an http(s) URL, got %q", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.UseFCMv1 {
	case "", "true", "false":
	default:
		return fmt.Errorf("use-fcm-v1 must be true or false, got %q", c.UseFCMv1)
	}

	if c.ChunkSize < 1 || c.ChunkSize > push.MaxMessagesPerRequest {
		return fmt.Errorf("chunk-size must be between 1 and %d", push.MaxMessagesPerRequest)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}

	switch c.Ledger {
	case LedgerFile:
		if c.LedgerDir == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("ledger-dir is required (no home directory): %w", err)
			}
			c.LedgerDir = filepath.Join(h, ".expopush", "ledger")
		}
	case LedgerRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis-addr is required for the redis ledger")
		}
	case LedgerNone:
	default:
		return fmt.Errorf("ledger must be one of %s, %s, %s; got %q", LedgerFile, LedgerRedis, LedgerNone, c.Ledger)
	}

	if c.AccessToken != "" && c.AccessTokenFile != "" {
		return fmt.Errorf("--access-token and --access-token-file are mutually exclusive")
	}
	return nil
}

// FCMv1 returns the parsed UseFCMv1 setting and whether it is set.
func (c Config) FCMv1() (bool, bool) {
	if c.UseFCMv1 == "" {
		return false, false
	}
	return c.UseFCMv1 == "true", true
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.AccessToken != "" {
		c.AccessToken = "*****"
	}
	if c.RedisPassword != "" {
		c.RedisPassword = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setCredential fills the credential slot shared by access-token and
// access-token-file. A layer that sets either one replaces both values from
// lower layers; a layer setting both keeps the literal token. Nothing is
// applied once either flag was given on the command line.
func (s *configSetter) setCredential(token, tokenFile string, cfg *Config) {
	if s.changed["access-token"] || s.changed["access-token-file"] {
		return
	}
	switch {
	case token != "":
		cfg.AccessToken, cfg.AccessTokenFile = token, ""
	case tokenFile != "":
		cfg.AccessToken, cfg.AccessTokenFile = "", tokenFile
	}
}

// setInt sets an int value if present and flag not changed. Zero and
// negative values are meaningful (a gzip threshold of 0 compresses every
// body, a negative one disables compression).
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBoolString stores an optional boolean in its string form.
func (s *configSetter) setBoolString(flag string, value *bool, dst *string) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = strconv.FormatBool(*value)
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString normalises "1"/"true" and "0"/"false" into "true" or
// "false". Anything else is an error.
func (s *configSetter) setBoolFromString(flag, value string, dst *string) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = strconv.FormatBool(b)
	return nil
}
