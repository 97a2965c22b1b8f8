// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/vaultmark/internal/index"
	"github.com/starford/vaultmark/internal/noteservice"
	"github.com/starford/vaultmark/internal/parser"
	"github.com/starford/vaultmark/internal/storage"
	"github.com/starford/vaultmark/pkg/obsidian"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vaultmark-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault holding files, keyed by slash
// separated path relative to the vault root.
func TestVault(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	for p, content := range files {
		abs := filepath.Join(vaultDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// QuietLogger logs errors only.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Env is an indexed vault ready to be queried.
type Env struct {
	Dir     string
	Store   *storage.FS
	DB      *index.DB
	Parser  *parser.Parser
	Service *noteservice.Service
}

// NewEnv writes files into a temporary vault, indexes it with every dialect
// construct enabled, and wires a note service on top.
func NewEnv(t *testing.T, files map[string]string) *Env {
	t.Helper()
	dir, store := TestVault(t, files)
	db := TestDB(t)
	p := parser.New(obsidian.Config{})
	if err := index.Sync(db, store, p, QuietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return &Env{
		Dir:     dir,
		Store:   store,
		DB:      db,
		Parser:  p,
		Service: noteservice.NewService(store, db, p),
	}
}
