package index

import "github.com/starford/vaultmark/internal/models"

// NoteIndex is the query surface of the index. Consumers depend on it rather
// than on *DB so they can be tested with fakes.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string, links []models.Link, tasks []models.Task) error
	DeleteNote(path string) error
	GetChecksum(path string) (string, error)
	GetNote(path string) (*models.Note, error)
	Search(query string, limit int) ([]SearchResult, error)
	Backlinks(path string) ([]models.Link, error)
	Tags() ([]models.TagCount, error)
	NotesByTag(tag string) ([]string, error)
	Tasks(char string) ([]models.Task, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ NoteIndex = (*DB)(nil)
