package api

import (
	"github.com/starford/vaultmark/internal/index"
	"github.com/starford/vaultmark/internal/models"
	"github.com/starford/vaultmark/internal/noteservice"
	"github.com/starford/vaultmark/internal/parser"
)

// ParseRequest is the JSON form of a POST /parse body. A body with any other
// content type is parsed as raw Markdown.
type ParseRequest struct {
	Content string `json:"content" example:"See [[Note|alias]] and ==this==" validate:"required"`
}

// ParseResponse is the extracted structure and tree of parsed content.
type ParseResponse = parser.Result

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// BacklinksResponse lists the links pointing at a note.
type BacklinksResponse struct {
	Path      string        `json:"path" example:"people/bob.md" validate:"required"`
	Backlinks []models.Link `json:"backlinks" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// TagsResponse lists tags with their note counts.
type TagsResponse struct {
	Tags []models.TagCount `json:"tags" validate:"required"`
}

// TagNotesResponse lists the notes carrying a tag.
type TagNotesResponse struct {
	Tag   string   `json:"tag" example:"project" validate:"required"`
	Notes []string `json:"notes" validate:"required"`
}

// TasksResponse lists indexed tasks.
type TasksResponse struct {
	Tasks []models.Task `json:"tasks" validate:"required"`
}
