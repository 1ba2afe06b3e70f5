package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bft-labs/expopush/pkg/push"
)

const ledgerFileName = "tickets.json"

// fileData is the on-disk layout.
type fileData struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// FileLedger implements Ledger with a JSON file. Every change rewrites the
// file atomically (temp file, then rename), so a crash leaves either the old
// or the new content.
type FileLedger struct {
	dir string
	mu  sync.Mutex
}

// NewFileLedger stores its file in dir, which is created on first write.
func NewFileLedger(dir string) *FileLedger {
	return &FileLedger{dir: dir}
}

// Path returns the full path to the ledger file.
func (l *FileLedger) Path() string {
	return filepath.Join(l.dir, ledgerFileName)
}

// Record implements Ledger.
func (l *FileLedger) Record(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	byID, err := l.load()
	if err != nil {
		return err
	}
	for _, e := range entries {
		byID[e.ID] = e
	}
	return l.save(byID)
}

// Pending implements Ledger.
func (l *FileLedger) Pending(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byID, err := l.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(byID))
	for _, e := range byID {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// Resolve implements Ledger.
func (l *FileLedger) Resolve(ctx context.Context, ids ...push.ReceiptID) error {
	if len(ids) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	byID, err := l.load()
	if err != nil {
		return err
	}
	before := len(byID)
	for _, id := range ids {
		delete(byID, id)
	}
	if len(byID) == before {
		return nil
	}
	return l.save(byID)
}

// load returns an empty map when no ledger file exists yet.
func (l *FileLedger) load() (map[push.ReceiptID]Entry, error) {
	data, err := os.ReadFile(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[push.ReceiptID]Entry), nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", l.Path(), err)
	}
	byID := make(map[push.ReceiptID]Entry, len(fd.Entries))
	for _, e := range fd.Entries {
		byID[e.ID] = e
	}
	return byID, nil
}

func (l *FileLedger) save(byID map[push.ReceiptID]Entry) error {
	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	fd := fileData{Version: 1, Entries: make([]Entry, 0, len(byID))}
	for _, e := range byID {
		fd.Entries = append(fd.Entries, e)
	}
	sortEntries(fd.Entries)

	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	path := l.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return os.Rename(tmp, path)
}

var _ Ledger = (*FileLedger)(nil)
