package noteservice_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/vaultmark/internal/apperr"
	"github.com/starford/vaultmark/internal/models"
	"github.com/starford/vaultmark/internal/noteservice"
	"github.com/starford/vaultmark/internal/testutil"
)

var files = map[string]string{
	"a.md":     "# A\n\nLinks to [[b|Bee]] ==loudly==.\n\n- [!] urgent #work\n",
	"dir/b.md": "# B\n\nBack to [[a]].\n",
}

func TestGetNote(t *testing.T) {
	env := testutil.NewEnv(t, files)
	ctx := context.Background()

	d, err := env.Service.GetNote(ctx, "a.md", false)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if d.Title != "A" || d.Tree != nil {
		t.Errorf("title = %q, tree = %v", d.Title, d.Tree)
	}
	wantLinks := []models.Link{{Source: "a.md", Target: "b", Alias: "Bee"}}
	if diff := cmp.Diff(wantLinks, d.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	wantTasks := []models.Task{{Path: "a.md", Line: 5, Char: "!", Checked: true, Text: "urgent #work"}}
	if diff := cmp.Diff(wantTasks, d.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"loudly"}, d.Highlights); diff != "" {
		t.Errorf("highlights mismatch (-want +got):\n%s", diff)
	}
	if len(d.Backlinks) != 1 || d.Backlinks[0].Source != "dir/b.md" {
		t.Errorf("backlinks = %v, want one from dir/b.md", d.Backlinks)
	}

	d, err = env.Service.GetNote(ctx, "dir/b.md", true)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if d.Tree == nil || d.Tree.Type != "root" {
		t.Errorf("tree = %+v, want root", d.Tree)
	}
	// [[b|Bee]] in a.md resolves to dir/b.md by basename.
	wantBacklinks := []models.Link{{Source: "a.md", Target: "b", Alias: "Bee"}}
	if diff := cmp.Diff(wantBacklinks, d.Backlinks); diff != "" {
		t.Errorf("backlinks mismatch (-want +got):\n%s", diff)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	env := testutil.NewEnv(t, files)
	_, err := env.Service.GetNote(context.Background(), "missing.md", false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParse_TooLarge(t *testing.T) {
	env := testutil.NewEnv(t, nil)
	big := bytes.Repeat([]byte("x"), noteservice.MaxParseBytes+1)
	if _, err := env.Service.Parse(context.Background(), big); !errors.Is(err, apperr.ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestIndexFile_UpdatesQueries(t *testing.T) {
	env := testutil.NewEnv(t, files)
	ctx := context.Background()

	if err := env.Service.IndexFile("c.md", []byte("# C\n\n- [>] later #work/deep\n")); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}
	paths, err := env.Service.NotesByTag(ctx, "work")
	if err != nil {
		t.Fatalf("NotesByTag: %v", err)
	}
	if diff := cmp.Diff([]string{"a.md", "c.md"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	tasks, err := env.Service.Tasks(ctx, ">")
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Path != "c.md" || tasks[0].Line != 3 {
		t.Errorf("tasks = %+v", tasks)
	}
}
