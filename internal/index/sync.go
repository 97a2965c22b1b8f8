package index

import (
	"log/slog"
	"time"

	"github.com/starford/vaultmark/internal/parser"
	"github.com/starford/vaultmark/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, p *parser.Parser, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	var indexed, removed int
	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, p, m.Path, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	for path := range checksums {
		if _, ok := disk[path]; ok {
			continue
		}
		if err := db.DeleteNote(path); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		removed++
		logger.Debug("sync: removed stale", slog.String("path", path))
	}

	logger.Info("sync: done",
		slog.Int("notes", len(metas)),
		slog.Int("indexed", indexed),
		slog.Int("removed", removed))
	return nil
}

// IndexFile parses data and upserts the note with its links, tags, and tasks.
// A zero modTime is recorded as the current time.
func IndexFile(db NoteIndex, p *parser.Parser, path string, data []byte, modTime time.Time) error {
	res, err := p.Parse(data)
	if err != nil {
		return err
	}
	if modTime.IsZero() {
		modTime = time.Now()
	}
	row := NoteRow{
		Path:        path,
		Title:       res.Title,
		Checksum:    storage.Checksum(data),
		Frontmatter: res.Frontmatter,
		Tags:        res.Tags,
		UpdatedAt:   modTime.UTC(),
	}
	return db.UpsertNote(row, res.Body, res.Links, res.Tasks)
}
