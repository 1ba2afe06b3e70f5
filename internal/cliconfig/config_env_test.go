package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"EXPOPUSH_BASE_URL":       "https://push.example.com",
				"EXPOPUSH_ACCESS_TOKEN":   "secret",
				"EXPOPUSH_TIMEOUT":        "3s",
				"EXPOPUSH_CHUNK_SIZE":     "10",
				"EXPOPUSH_CONCURRENCY":    "2",
				"EXPOPUSH_GZIP_THRESHOLD": "-1",
				"EXPOPUSH_USE_FCM_V1":     "1",
				"EXPOPUSH_LEDGER":         "none",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				BaseURL:       "https://push.example.com",
				AccessToken:   "secret",
				Timeout:       3 * time.Second,
				ChunkSize:     10,
				Concurrency:   2,
				GzipThreshold: -1,
				UseFCMv1:      "true",
				Ledger:        "none",
			},
		},
		{
			name:     "falls back to EXPO_ACCESS_TOKEN",
			envVars:  map[string]string{"EXPO_ACCESS_TOKEN": "from-expo"},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{AccessToken: "from-expo"},
		},
		{
			name: "prefers EXPOPUSH_ACCESS_TOKEN",
			envVars: map[string]string{
				"EXPO_ACCESS_TOKEN":     "from-expo",
				"EXPOPUSH_ACCESS_TOKEN": "from-expopush",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{AccessToken: "from-expopush"},
		},
		{
			name:     "token file flag blocks env token",
			envVars:  map[string]string{"EXPO_ACCESS_TOKEN": "from-env"},
			changed:  map[string]bool{"access-token-file": true},
			initial:  Config{AccessTokenFile: "/flag/token"},
			expected: Config{AccessTokenFile: "/flag/token"},
		},
		{
			name:     "env token file replaces file token",
			envVars:  map[string]string{"EXPOPUSH_ACCESS_TOKEN_FILE": "/env/token"},
			changed:  map[string]bool{},
			initial:  Config{AccessToken: "from-file"},
			expected: Config{AccessTokenFile: "/env/token"},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"EXPOPUSH_BASE_URL":  "https://env.example.com",
				"EXPOPUSH_LOG_LEVEL": "debug",
			},
			changed:  map[string]bool{"base-url": true},
			initial:  Config{BaseURL: "https://flag.example.com"},
			expected: Config{BaseURL: "https://flag.example.com", LogLevel: "debug"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"EXPOPUSH_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"EXPOPUSH_CHUNK_SIZE": "lots"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid bool",
			envVars: map[string]string{"EXPOPUSH_USE_FCM_V1": "perhaps"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"EXPOPUSH_ACCESS_TOKEN", "EXPO_ACCESS_TOKEN", "EXPOPUSH_ACCESS_TOKEN_FILE"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "EXPOPUSH_TEST_DOTENV_A=from-file\nEXPOPUSH_TEST_DOTENV_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EXPOPUSH_TEST_DOTENV_B", "from-env")
	// Registers cleanup for the variable the file will set.
	t.Setenv("EXPOPUSH_TEST_DOTENV_A", "")
	os.Unsetenv("EXPOPUSH_TEST_DOTENV_A")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("EXPOPUSH_TEST_DOTENV_A"); got != "from-file" {
		t.Errorf("A = %q, want from-file", got)
	}
	if got := os.Getenv("EXPOPUSH_TEST_DOTENV_B"); got != "from-env" {
		t.Errorf("B = %q, want existing value kept", got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadDotEnv() on missing file error = %v, want nil", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("LoadDotEnv(\"\") error = %v, want nil", err)
	}
}
