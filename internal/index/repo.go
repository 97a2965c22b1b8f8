package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/starford/vaultmark/internal/apperr"
	"github.com/starford/vaultmark/internal/models"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path        string
	Title       string
	Checksum    string
	Frontmatter map[string]interface{}
	Tags        []string
	UpdatedAt   time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertNote replaces a note and everything extracted from it within a
// transaction.
func (db *DB) UpsertNote(n NoteRow, body string, links []models.Link, tasks []models.Task) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	fmJSON := []byte("{}")
	if n.Frontmatter != nil {
		if fmJSON, err = json.Marshal(n.Frontmatter); err != nil {
			return fmt.Errorf("index: encode frontmatter: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, frontmatter, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title       = excluded.title,
			checksum    = excluded.checksum,
			frontmatter = excluded.frontmatter,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, string(fmJSON), body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}
	if err := clearExtracted(tx, n.Path); err != nil {
		return err
	}

	if err := insertAll(tx, `INSERT OR IGNORE INTO links (source, target, heading, alias, embedded) VALUES (?, ?, ?, ?, ?)`,
		len(links), func(i int) []any {
			l := links[i]
			return []any{n.Path, l.Target, l.Heading, l.Alias, l.Embedded}
		}); err != nil {
		return fmt.Errorf("index: insert links: %w", err)
	}
	if err := insertAll(tx, `INSERT OR IGNORE INTO tags (path, tag) VALUES (?, ?)`,
		len(n.Tags), func(i int) []any {
			return []any{n.Path, n.Tags[i]}
		}); err != nil {
		return fmt.Errorf("index: insert tags: %w", err)
	}
	if err := insertAll(tx, `INSERT INTO tasks (path, line, char, checked, text) VALUES (?, ?, ?, ?, ?)`,
		len(tasks), func(i int) []any {
			t := tasks[i]
			return []any{n.Path, t.Line, t.Char, t.Checked, t.Text}
		}); err != nil {
		return fmt.Errorf("index: insert tasks: %w", err)
	}

	return tx.Commit()
}

func clearExtracted(tx *sql.Tx, p string) error {
	for _, table := range []string{"links WHERE source", "tags WHERE path", "tasks WHERE path"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` = ?`, p); err != nil {
			return fmt.Errorf("index: clear %s: %w", strings.Fields(table)[0], err)
		}
	}
	return nil
}

// insertAll runs query once per row through a single prepared statement.
func insertAll(tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNote removes a note and everything extracted from it.
func (db *DB) DeleteNote(p string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, p)
	if err := clearExtracted(tx, p); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM notes WHERE path = ?`, p); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(p string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, p).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// GetNote returns an indexed note with its links, tags, and tasks.
func (db *DB) GetNote(p string) (*models.Note, error) {
	n := &models.Note{Path: p}
	var fm string
	err := db.conn.QueryRow(`SELECT title, checksum, frontmatter, updated_at FROM notes WHERE path = ?`, p).
		Scan(&n.Title, &n.Checksum, &fm, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: note %s: %w", p, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	if fm != "" && fm != "{}" {
		if err := json.Unmarshal([]byte(fm), &n.Frontmatter); err != nil {
			return nil, fmt.Errorf("index: decode frontmatter: %w", err)
		}
	}

	if n.Links, err = db.queryLinks(`SELECT source, target, heading, alias, embedded FROM links WHERE source = ? ORDER BY rowid`, p); err != nil {
		return nil, err
	}
	if n.Tags, err = db.queryStrings(`SELECT tag FROM tags WHERE path = ? ORDER BY rowid`, p); err != nil {
		return nil, err
	}
	if n.Tasks, err = db.queryTasks(`SELECT path, line, char, checked, text FROM tasks WHERE path = ? ORDER BY line`, p); err != nil {
		return nil, err
	}
	return n, nil
}

// Backlinks returns the links pointing at the note stored under p. Links are
// written without resolution, so a link matches when its target is the full
// path, the path without ".md", or the bare file name without ".md".
func (db *DB) Backlinks(p string) ([]models.Link, error) {
	full := strings.TrimPrefix(p, "/")
	noExt := strings.TrimSuffix(full, ".md")
	base := path.Base(noExt)
	return db.queryLinks(`
		SELECT source, target, heading, alias, embedded
		FROM links
		WHERE target IN (?, ?, ?) AND source != ?
		ORDER BY source, rowid
	`, full, noExt, base, full)
}

// Tags returns every tag with the number of notes carrying it, most used
// first.
func (db *DB) Tags() ([]models.TagCount, error) {
	rows, err := db.conn.Query(`SELECT tag, COUNT(*) AS n FROM tags GROUP BY tag ORDER BY n DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("index: tags: %w", err)
	}
	defer rows.Close()
	out := []models.TagCount{}
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// NotesByTag returns the paths of notes tagged with tag or any tag nested
// below it ("project" matches "project/alpha").
func (db *DB) NotesByTag(tag string) ([]string, error) {
	tag = strings.TrimPrefix(tag, "#")
	return db.queryStrings(`
		SELECT DISTINCT path FROM tags
		WHERE tag = ? OR substr(tag, 1, ?) = ?
		ORDER BY path
	`, tag, len(tag)+1, tag+"/")
}

// Tasks returns the tasks whose character is char, or every task when char
// is empty.
func (db *DB) Tasks(char string) ([]models.Task, error) {
	if char == "" {
		return db.queryTasks(`SELECT path, line, char, checked, text FROM tasks ORDER BY path, line`)
	}
	return db.queryTasks(`SELECT path, line, char, checked, text FROM tasks WHERE char = ? ORDER BY path, line`, char)
}

func (db *DB) queryLinks(query string, args ...any) ([]models.Link, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: links: %w", err)
	}
	defer rows.Close()
	out := []models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target, &l.Heading, &l.Alias, &l.Embedded); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (db *DB) queryTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: tasks: %w", err)
	}
	defer rows.Close()
	out := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.Path, &t.Line, &t.Char, &t.Checked, &t.Text); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) queryStrings(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
