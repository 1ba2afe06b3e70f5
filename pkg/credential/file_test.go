package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForToken(t *testing.T, src Source, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, _ := src.Token(context.Background())
		if got == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	got, _ := src.Token(context.Background())
	t.Fatalf("Token() = %q, want %q", got, want)
}

func TestStatic(t *testing.T) {
	got, err := Static("abc").Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got != "abc" {
		t.Errorf("Token() = %q, want abc", got)
	}
}

func TestNewFileSource(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content *string
		want    string
		wantErr bool
	}{
		{"trims whitespace", strPtr("  secret\n"), "secret", false},
		{"empty file", strPtr("\n"), "", true},
		{"missing file", nil, "", true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "token"+string(rune('a'+i)))
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o600); err != nil {
					t.Fatalf("write: %v", err)
				}
			}
			src, err := NewFileSource(path, FileConfig{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFileSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, _ := src.Token(context.Background())
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileSource_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("first"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := NewFileSource(path, FileConfig{DebounceDelay: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer src.Close()

	if err := os.WriteFile(path, []byte("second\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitForToken(t, src, "second")

	// Atomic replace via rename.
	tmp := filepath.Join(dir, "token.tmp")
	if err := os.WriteFile(tmp, []byte("third"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	waitForToken(t, src, "third")
}

func TestFileSource_KeepsTokenOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("good"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := NewFileSource(path, FileConfig{})
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := src.Reload(); err == nil {
		t.Fatal("Reload() error = nil, want error for empty file")
	}
	got, _ := src.Token(context.Background())
	if got != "good" {
		t.Errorf("Token() = %q, want good", got)
	}
}

func TestFileSource_CloseWithoutStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := NewFileSource(path, FileConfig{})
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func strPtr(s string) *string { return &s }
