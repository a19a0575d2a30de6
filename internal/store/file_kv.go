package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores one JSON file per key inside Dir.
type FileKV struct {
	Dir string
}

func (f *FileKV) path(key string) (string, error) {
	name := fileNameForKey(key)
	if name == "" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.Dir, name+".json"), nil
}

// fileNameForKey turns a logical key into a file name: "tab order" -> "tabOrder".
func fileNameForKey(key string) string {
	parts := strings.Fields(key)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range parts {
		p = strings.Map(func(r rune) rune {
			if r == '/' || r == '\\' || r == os.PathSeparator {
				return -1
			}
			return r
		}, p)
		if p == "" || p == "." || p == ".." {
			continue
		}
		if i > 0 && b.Len() > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		b.WriteString(p)
	}
	return b.String()
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (f *FileKV) Put(_ context.Context, key string, val []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, val, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *FileKV) Close() error { return nil }
