// Package noteservice answers note queries by combining the vault, the
// parser, and the index.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/starford/vaultmark/internal/apperr"
	"github.com/starford/vaultmark/internal/index"
	"github.com/starford/vaultmark/internal/models"
	"github.com/starford/vaultmark/internal/parser"
	"github.com/starford/vaultmark/internal/storage"
	"github.com/starford/vaultmark/internal/wire"
)

// MaxParseBytes bounds the size of content accepted by Parse.
const MaxParseBytes = 4 << 20

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Links       []models.Link  `json:"links"`
	Tasks       []models.Task  `json:"tasks"`
	Highlights  []string       `json:"highlights"`
	Backlinks   []models.Link  `json:"backlinks"`
	Tree        *wire.Node     `json:"tree,omitempty"`
}

// Service coordinates storage, parser, and index.
type Service struct {
	store  storage.Provider
	db     index.NoteIndex
	parser *parser.Parser
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex, p *parser.Parser) *Service {
	return &Service{store: store, db: db, parser: p}
}

// Parser returns the parser notes are indexed with.
func (s *Service) Parser() *parser.Parser { return s.parser }

// GetNote reads a note from the vault, parses it, and adds its backlinks.
// The tree is included only when withTree is set.
func (s *Service) GetNote(_ context.Context, path string, withTree bool) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("noteservice: %s: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	res, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	for i := range res.Tasks {
		res.Tasks[i].Path = path
	}
	for i := range res.Links {
		res.Links[i].Source = path
	}
	d := &NoteDetail{
		Path:        path,
		Title:       res.Title,
		Content:     string(data),
		Checksum:    storage.Checksum(data),
		Tags:        res.Tags,
		Frontmatter: res.Frontmatter,
		Links:       res.Links,
		Tasks:       res.Tasks,
		Highlights:  res.Highlights,
		Backlinks:   nonNilSlice(bl),
	}
	if withTree {
		d.Tree = res.Tree
	}
	return d, nil
}

// Parse parses content that is not stored in the vault.
func (s *Service) Parse(_ context.Context, content []byte) (*parser.Result, error) {
	if len(content) > MaxParseBytes {
		return nil, fmt.Errorf("noteservice: parse %d bytes: %w", len(content), apperr.ErrTooLarge)
	}
	return s.parser.Parse(content)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Backlinks returns the links pointing at the note stored under path.
func (s *Service) Backlinks(_ context.Context, path string) ([]models.Link, error) {
	bl, err := s.db.Backlinks(path)
	return nonNilSlice(bl), err
}

// Tags returns every tag with its note count.
func (s *Service) Tags(_ context.Context) ([]models.TagCount, error) {
	tags, err := s.db.Tags()
	return nonNilSlice(tags), err
}

// NotesByTag returns the notes carrying tag or a tag nested below it.
func (s *Service) NotesByTag(_ context.Context, tag string) ([]string, error) {
	paths, err := s.db.NotesByTag(tag)
	return nonNilSlice(paths), err
}

// Tasks returns the indexed tasks with the given character, or all of them
// when char is empty.
func (s *Service) Tasks(_ context.Context, char string) ([]models.Task, error) {
	tasks, err := s.db.Tasks(char)
	return nonNilSlice(tasks), err
}

// IndexFile parses data and upserts it into the index.
func (s *Service) IndexFile(path string, data []byte) error {
	return index.IndexFile(s.db, s.parser, path, data, time.Time{})
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
