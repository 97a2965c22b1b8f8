package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultmark/internal/apperr"
	"github.com/starford/vaultmark/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// wildcard extracts the path matched by a trailing "*" route. Encoded
// slashes from OpenAPI clients (e.g. topics%2Fnote.md) are decoded.
func wildcard(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeError maps domain errors to status codes. Unexpected errors are
// logged and reported as 500.
func writeError(w http.ResponseWriter, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
	case errors.Is(err, apperr.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("content too large"))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Parse handles POST /parse.
//
//	@Summary		Parse Markdown and return its extracted structure and tree
//	@Tags			parse
//	@Accept			json,text/markdown
//	@Produce		json
//	@Param			body	body		ParseRequest	true	"Content to parse"
//	@Success		200		{object}	ParseResponse
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/parse [post]
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, noteservice.MaxParseBytes+1)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("content too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	content := body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var req ParseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		content = []byte(req.Content)
	}
	if !utf8.Valid(content) {
		writeJSON(w, http.StatusBadRequest, errorBody("content must be UTF-8"))
		return
	}

	res, err := h.svc.Parse(r.Context(), content)
	if err != nil {
		writeError(w, "parse", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetNote handles GET /notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Param			tree	query		bool	false	"Include the syntax tree"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	withTree, _ := strconv.ParseBool(r.URL.Query().Get("tree"))
	note, err := h.svc.GetNote(r.Context(), path, withTree)
	if err != nil {
		writeError(w, "get note", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Backlinks handles GET /backlinks/*.
//
//	@Summary		List the wikilinks pointing at a note
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	BacklinksResponse
//	@Security		BearerAuth
//	@Router			/backlinks/{path} [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	path := wildcard(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	bl, err := h.svc.Backlinks(r.Context(), path)
	if err != nil {
		writeError(w, "backlinks", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Path: path, Backlinks: bl})
}

// Search handles GET /search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Tags handles GET /tags.
//
//	@Summary		List tags with note counts
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		writeError(w, "tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// NotesByTag handles GET /tags/*. Nested tags match their parents.
//
//	@Summary		List notes carrying a tag
//	@Tags			tags
//	@Produce		json
//	@Param			tag	path		string	true	"Tag, without #"
//	@Success		200	{object}	TagNotesResponse
//	@Security		BearerAuth
//	@Router			/tags/{tag} [get]
func (h *Handler) NotesByTag(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimPrefix(wildcard(r), "#")
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("tag is required"))
		return
	}
	notes, err := h.svc.NotesByTag(r.Context(), tag)
	if err != nil {
		writeError(w, "notes by tag", err, slog.String("tag", tag))
		return
	}
	writeJSON(w, http.StatusOK, TagNotesResponse{Tag: tag, Notes: notes})
}

// Tasks handles GET /tasks.
//
//	@Summary		List indexed tasks, optionally filtered by task character
//	@Tags			tasks
//	@Produce		json
//	@Param			char	query		string	false	"Task character, e.g. x, ?, >"
//	@Success		200		{object}	TasksResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tasks [get]
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	char := r.URL.Query().Get("char")
	if utf8.RuneCountInString(char) > 1 {
		writeJSON(w, http.StatusBadRequest, errorBody("char must be a single character"))
		return
	}
	tasks, err := h.svc.Tasks(r.Context(), char)
	if err != nil {
		writeError(w, "tasks", err, slog.String("char", char))
		return
	}
	writeJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
}
