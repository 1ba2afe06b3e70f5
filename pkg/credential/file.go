package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/expopush/pkg/log"
)

// FileConfig holds options for FileSource.
type FileConfig struct {
	// DebounceDelay is how long to wait after a change before re-reading the
	// file. Editors often write a file in several steps.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Logger receives reload diagnostics. Default: no-op.
	Logger log.Logger
}

// FileSource serves a token read from a file. After Start it watches the
// file's directory and re-reads the token whenever the file is written,
// created or renamed into place. A failed reload keeps the previous token.
type FileSource struct {
	path          string
	debounceDelay time.Duration
	logger        log.Logger

	mu       sync.RWMutex
	token    string
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewFileSource reads the token from path. The file must exist and contain a
// non-empty token; surrounding whitespace is ignored.
func NewFileSource(path string, cfg FileConfig) (*FileSource, error) {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	s := &FileSource{
		path:          filepath.Clean(path),
		debounceDelay: cfg.DebounceDelay,
		logger:        cfg.Logger.With(log.String("token_file", path)),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Token returns the most recently loaded token.
func (s *FileSource) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Reload re-reads the token file.
func (s *FileSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("%w in %s", ErrNoToken, s.path)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Start begins watching the token file until ctx is cancelled or Close is
// called.
func (s *FileSource) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: atomic replacements swap the inode, which would
	// silently end a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.watchLoop(watchCtx, watcher)
	return nil
}

// Close stops watching. It is safe to call more than once.
func (s *FileSource) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *FileSource) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("token watcher error", log.Err(err))
		}
	}
}

func (s *FileSource) scheduleReload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.Reload(); err != nil {
			s.logger.Warn("token reload failed, keeping previous token", log.Err(err))
			return
		}
		s.logger.Info("access token reloaded")
	})
}
