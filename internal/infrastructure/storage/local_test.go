package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func newLocalTestStore(t *testing.T) ArtifactStore {
	t.Helper()
	store, err := NewLocalStore(&config.StorageConfig{LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestLocalStore_RoundTrip(t *testing.T) {
	store := newLocalTestStore(t)
	payload := []byte("jpeg-bytes")

	ref, err := store.Store(context.Background(), payload)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("expected .jpg ref, got %q", ref)
	}
	if filepath.Base(ref) != ref {
		t.Errorf("ref must be a bare filename, got %q", ref)
	}

	rc, err := store.Get(context.Background(), ref)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("round trip mismatch: got %q", data)
	}
}

func TestLocalStore_RefsAreUnique(t *testing.T) {
	store := newLocalTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		ref, err := store.Store(context.Background(), []byte("x"))
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate ref %q", ref)
		}
		seen[ref] = true
	}
}

func TestLocalStore_RejectsEmptyData(t *testing.T) {
	store := newLocalTestStore(t)

	if _, err := store.Store(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty artifact")
	}
}

func TestLocalStore_GetMissingRef(t *testing.T) {
	store := newLocalTestStore(t)

	_, err := store.Get(context.Background(), "no-such-artifact.jpg")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestNewLocalStore_RequiresPath(t *testing.T) {
	if _, err := NewLocalStore(&config.StorageConfig{}); err == nil {
		t.Fatal("expected error for empty local path")
	}
}
