package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	sqliteFileName = "tabstrip.sqlite"
)

// KV is the key-value persistence the tab strip writes through. Get reports
// ok=false for a key that was never written.
type KV interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Put(ctx context.Context, key string, val []byte) error
	Close() error
}

// Store locates the data directory for a backend.
type Store struct {
	Dir     string
	Backend string
}

// DefaultDir returns $TABSTRIP_DIR, or <user config dir>/tabstrip.
func DefaultDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the real config dir).
	if v := strings.TrimSpace(os.Getenv("TABSTRIP_DIR")); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tabstrip"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// Open returns the KV for s.Backend. An empty backend means file.
func (s Store) Open(ctx context.Context) (KV, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendFile:
		return &FileKV{Dir: s.Dir}, nil
	case BackendSQLite:
		return OpenSQLiteKV(ctx, filepath.Join(s.Dir, sqliteFileName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s|%s)", s.Backend, BackendFile, BackendSQLite)
	}
}
