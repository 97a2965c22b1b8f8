package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/vaultmark/internal/parser"
	"github.com/starford/vaultmark/internal/storage"
)

// Event kinds passed to an EventCallback.
const (
	EventIndexed = "indexed"
	EventDeleted = "deleted"
)

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, path string)

const reconcileDelay = 200 * time.Millisecond

type watcher struct {
	db     *DB
	store  storage.Provider
	parser *parser.Parser
	root   string
	logger *slog.Logger
	cb     EventCallback
}

// Watch re-indexes notes as they change on disk until ctx is cancelled. cb,
// if non-nil, is called after each successful index mutation.
//
// Directories created at runtime are added to the watch list. fsnotify only
// reports the old name of a renamed file, so renames schedule a debounced
// reconciliation against the vault listing.
func Watch(ctx context.Context, db *DB, store storage.Provider, p *parser.Parser, vaultRoot string, logger *slog.Logger, cb EventCallback) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, vaultRoot); err != nil {
		return err
	}
	w := &watcher{db: db, store: store, parser: p, root: vaultRoot, logger: logger, cb: cb}
	logger.Info("watcher: started", slog.String("root", vaultRoot))

	var (
		reconcileTimer *time.Timer
		reconcileCh    <-chan time.Time
	)
	defer func() {
		if reconcileTimer != nil {
			reconcileTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			w.reconcile()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					w.addDir(fw, ev.Name)
					continue
				}
			}
			if !storage.IsNote(ev.Name) {
				continue
			}
			rel, ok := w.rel(ev.Name)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.index(rel, "watcher: indexed")
			case ev.Op&fsnotify.Remove != 0:
				w.remove(rel, "watcher: deleted")
			case ev.Op&fsnotify.Rename != 0:
				w.remove(rel, "watcher: rename old deleted")
				if reconcileTimer == nil {
					reconcileTimer = time.NewTimer(reconcileDelay)
					reconcileCh = reconcileTimer.C
				} else {
					reconcileTimer.Reset(reconcileDelay)
				}
			}

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *watcher) rel(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || hiddenPath(rel) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *watcher) index(rel, msg string) {
	data, err := w.store.Read(rel)
	if err != nil {
		w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if err := IndexFile(w.db, w.parser, rel, data, time.Time{}); err != nil {
		w.logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug(msg, slog.String("path", rel))
	w.notify(EventIndexed, rel)
}

func (w *watcher) remove(rel, msg string) {
	if err := w.db.DeleteNote(rel); err != nil {
		w.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug(msg, slog.String("path", rel))
	w.notify(EventDeleted, rel)
}

func (w *watcher) notify(kind, rel string) {
	if w.cb != nil {
		w.cb(kind, rel)
	}
}

// addDir starts watching a new directory and indexes the notes already in
// it, since their create events may have fired before the watch was added.
func (w *watcher) addDir(fw *fsnotify.Watcher, dir string) {
	if _, ok := w.rel(dir); !ok {
		return
	}
	if err := addDirsRecursive(fw, dir); err != nil {
		w.logger.Warn("watcher: add new dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: watching new dir", slog.String("path", dir))

	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !storage.IsNote(p) {
			return nil
		}
		if rel, ok := w.rel(p); ok {
			w.index(rel, "watcher: indexed from new dir")
		}
		return nil
	})
}

// reconcile removes index entries whose files are gone and indexes files
// whose checksum is missing or stale.
func (w *watcher) reconcile() {
	checksums, err := w.db.AllChecksums()
	if err != nil {
		w.logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := w.store.List("")
	if err != nil {
		w.logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			w.remove(p, "reconcile: removed stale")
		}
	}
	for p, cs := range disk {
		if checksums[p] != cs {
			w.index(p, "reconcile: indexed")
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
