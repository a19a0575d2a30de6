package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()
	out := map[string]KV{}
	for _, backend := range []string{BackendFile, BackendSQLite} {
		kv, err := Store{Dir: t.TempDir(), Backend: backend}.Open(ctx)
		if err != nil {
			t.Fatalf("open %s: %v", backend, err)
		}
		t.Cleanup(func() { _ = kv.Close() })
		out[backend] = kv
	}
	return out
}

func TestKV_GetPut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, TabOrderKey); err != nil || ok {
				t.Fatalf("expected missing key; ok=%v err=%v", ok, err)
			}
			if err := kv.Put(ctx, TabOrderKey, []byte(`one`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := kv.Put(ctx, TabOrderKey, []byte(`two`)); err != nil {
				t.Fatalf("Put (overwrite): %v", err)
			}
			got, ok, err := kv.Get(ctx, TabOrderKey)
			if err != nil || !ok {
				t.Fatalf("Get: ok=%v err=%v", ok, err)
			}
			if string(got) != "two" {
				t.Fatalf("expected last write to win; got %q", got)
			}
		})
	}
}

func TestFileKV_UsesCamelCaseFileName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	kv := &FileKV{Dir: dir}
	if err := kv.Put(context.Background(), TabOrderKey, []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tabOrder.json")); err != nil {
		t.Fatalf("expected tabOrder.json: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tabOrder.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be renamed away; err=%v", err)
	}
}

func TestFileKV_RejectsEmptyKey(t *testing.T) {
	t.Parallel()
	kv := &FileKV{Dir: t.TempDir()}
	if err := kv.Put(context.Background(), "  ", []byte(`x`)); err == nil {
		t.Fatalf("expected error for blank key")
	}
}

func TestSQLiteKV_ReopenKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	kv, err := OpenSQLiteKV(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	if err := kv.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Second open must see migrations as already applied.
	kv, err = OpenSQLiteKV(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("expected persisted value; got %q ok=%v err=%v", got, ok, err)
	}
}

func TestStore_OpenUnknownBackend(t *testing.T) {
	t.Parallel()
	if _, err := (Store{Dir: t.TempDir(), Backend: "redis"}).Open(context.Background()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestDefaultDir_EnvOverride(t *testing.T) {
	t.Setenv("TABSTRIP_DIR", "/tmp/somewhere")
	got, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if got != "/tmp/somewhere" {
		t.Fatalf("expected env override; got %q", got)
	}
}
