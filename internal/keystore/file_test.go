package keystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T, namespace string) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys", "keys.json")
	fs, err := NewFileStore(path, namespace)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return fs, path
}

func TestFileStore_GetAbsentFile(t *testing.T) {
	fs, _ := newTestFileStore(t, "ns")
	key, ok, err := fs.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || key != "" {
		t.Errorf("Get = (%q, %v); want absent", key, ok)
	}
}

func TestFileStore_SetGetRoundtrip(t *testing.T) {
	fs, _ := newTestFileStore(t, "ns")
	ctx := context.Background()

	if err := fs.Set(ctx, "secret-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	key, ok, err := fs.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || key != "secret-1" {
		t.Errorf("Get = (%q, %v); want (%q, true)", key, ok, "secret-1")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	fs, path := newTestFileStore(t, "ns")
	ctx := context.Background()

	if err := fs.Set(ctx, "secret-2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := NewFileStore(path, "ns")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	key, ok, err := reopened.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || key != "secret-2" {
		t.Errorf("Get after reopen = (%q, %v); want (%q, true)", key, ok, "secret-2")
	}
}

func TestFileStore_WhitespaceValueIsAbsent(t *testing.T) {
	fs, _ := newTestFileStore(t, "ns")
	ctx := context.Background()

	if err := fs.Set(ctx, "   \t"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_, ok, err := fs.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected whitespace-only value to read as absent")
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	fs, _ := newTestFileStore(t, "ns")
	ctx := context.Background()

	// Clear with nothing stored must be a no-op.
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear on absent key failed: %v", err)
	}

	if err := fs.Set(ctx, "secret-3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := fs.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
	_, ok, err := fs.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected key to be absent after Clear")
	}
}

func TestFileStore_NamespacesDoNotCollide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	ctx := context.Background()

	first, err := NewFileStore(path, Namespace("http://localhost:19455"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	second, err := NewFileStore(path, Namespace("http://localhost:20000"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := first.Set(ctx, "key-a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := second.Set(ctx, "key-b"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	key, ok, err := first.Get(ctx)
	if err != nil || !ok || key != "key-a" {
		t.Errorf("first.Get = (%q, %v, %v); want (%q, true, nil)", key, ok, err, "key-a")
	}

	if err := second.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	key, ok, err = first.Get(ctx)
	if err != nil || !ok || key != "key-a" {
		t.Errorf("first.Get after second.Clear = (%q, %v, %v); want (%q, true, nil)", key, ok, err, "key-a")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	fs, path := newTestFileStore(t, "ns")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := fs.Get(context.Background()); err == nil {
		t.Error("expected error reading corrupt key store")
	}
}

func TestNamespace(t *testing.T) {
	a := Namespace("http://localhost:19455")
	b := Namespace("http://localhost:19455/")
	if a != b {
		t.Errorf("trailing slash should not change namespace: %q vs %q", a, b)
	}
	if Namespace("http://localhost:19455") == Namespace("http://localhost:20000") {
		t.Error("distinct base URLs must not share a namespace")
	}
}
