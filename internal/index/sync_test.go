package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/vaultmark/internal/models"
)

func TestSync_IndexesVault(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	_ = os.MkdirAll(filepath.Join(vaultDir, "people"), 0o755)
	_ = os.WriteFile(filepath.Join(vaultDir, "people", "bob.md"), []byte("# Bob\n"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "daily.md"), []byte(
		"---\ntags: [journal]\n---\n# Daily\n\nMet [[bob|Bob]] about #work. %%not [[hidden]]%%\n\n- [>] follow up\n"), 0o644)

	if err := Sync(db, store, testParser, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	note, err := db.GetNote("daily.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Title != "Daily" {
		t.Errorf("title = %q, want Daily", note.Title)
	}
	if diff := cmp.Diff([]string{"journal", "work"}, note.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	wantTasks := []models.Task{{Path: "daily.md", Line: 8, Char: ">", Checked: true, Text: "follow up"}}
	if diff := cmp.Diff(wantTasks, note.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	bl, err := db.Backlinks("people/bob.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	want := []models.Link{{Source: "daily.md", Target: "bob", Alias: "Bob"}}
	if diff := cmp.Diff(want, bl); diff != "" {
		t.Errorf("backlinks mismatch (-want +got):\n%s", diff)
	}
	if bl, _ := db.Backlinks("hidden.md"); len(bl) != 0 {
		t.Errorf("commented link was indexed: %v", bl)
	}
}

func TestSync_RemovesStale(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	p := filepath.Join(vaultDir, "temp.md")
	_ = os.WriteFile(p, []byte("# Temp"), 0o644)
	if err := Sync(db, store, testParser, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	_ = os.Remove(p)
	if err := Sync(db, store, testParser, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if cs, _ := db.GetChecksum("temp.md"); cs != "" {
		t.Error("stale note still indexed")
	}
}
