package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/vaultmark/internal/models"
	"github.com/starford/vaultmark/internal/noteservice"
	"github.com/starford/vaultmark/internal/testutil"
)

var vaultFiles = map[string]string{
	"daily.md":       "---\ntags: [journal]\n---\n# Daily\n\nMet [[people/bob|Bob]] about #project/alpha.\n\n- [?] ask about budget\n- [x] send notes\n",
	"people/bob.md":  "# Bob\n\nWorks on [[daily#Plans]]. #person\n",
	"ideas/later.md": "# Later\n\n- [?] revisit #project\n",
}

// testEnv writes files into a temp vault, indexes it, and returns the router.
// An empty authToken disables auth.
func testEnv(t *testing.T, authToken string, sseHandler http.Handler) http.Handler {
	t.Helper()
	env := testutil.NewEnv(t, vaultFiles)
	return NewRouter(env.Service, authToken != "", authToken, sseHandler)
}

func do(t *testing.T, h http.Handler, req *http.Request, wantStatus int, out any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("%s %s = %d, want %d (body %s)", req.Method, req.URL, w.Code, wantStatus, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func get(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func TestParse_JSONBody(t *testing.T) {
	router := testEnv(t, "", nil)

	body, _ := json.Marshal(ParseRequest{Content: "# T\n\n[[A#h|x]] ==hi== #tag -> %%gone%%"})
	req := httptest.NewRequest(http.MethodPost, "/parse", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var got struct {
		Title      string        `json:"title"`
		Links      []models.Link `json:"links"`
		Tags       []string      `json:"tags"`
		Highlights []string      `json:"highlights"`
		Tree       struct {
			Type     string `json:"type"`
			Children []struct {
				Type     string            `json:"type"`
				Children []json.RawMessage `json:"children"`
			} `json:"children"`
		} `json:"tree"`
	}
	do(t, router, req, http.StatusOK, &got)

	if got.Title != "T" {
		t.Errorf("title = %q, want T", got.Title)
	}
	if diff := cmp.Diff([]models.Link{{Target: "A", Heading: "h", Alias: "x"}}, got.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tag"}, got.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hi"}, got.Highlights); diff != "" {
		t.Errorf("highlights mismatch (-want +got):\n%s", diff)
	}
	if got.Tree.Type != "root" || len(got.Tree.Children) != 2 || got.Tree.Children[1].Type != "paragraph" {
		t.Fatalf("unexpected tree: %+v", got.Tree)
	}
	parts := make([]string, len(got.Tree.Children[1].Children))
	for i, c := range got.Tree.Children[1].Children {
		parts[i] = string(c)
	}
	para := strings.Join(parts, ",")
	for _, want := range []string{`"type":"wikilink"`, `"type":"highlight"`, `"type":"tag"`, `"value":"&rarr;"`} {
		if !strings.Contains(para, want) {
			t.Errorf("paragraph missing %s: %s", want, para)
		}
	}
	if strings.Contains(para, "comment") {
		t.Errorf("comment not removed: %s", para)
	}
}

func TestParse_RawBody(t *testing.T) {
	router := testEnv(t, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader("- [>] deferred\n"))
	req.Header.Set("Content-Type", "text/markdown")

	var got ParseResponse
	do(t, router, req, http.StatusOK, &got)
	want := []models.Task{{Line: 1, Char: ">", Checked: true, Text: "deferred"}}
	if diff := cmp.Diff(want, got.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	router := testEnv(t, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	do(t, router, req, http.StatusBadRequest, nil)
}

func TestParse_TooLarge(t *testing.T) {
	router := testEnv(t, "", nil)
	big := bytes.Repeat([]byte("a"), noteservice.MaxParseBytes+10)
	req := httptest.NewRequest(http.MethodPost, "/parse", bytes.NewReader(big))
	do(t, router, req, http.StatusRequestEntityTooLarge, nil)
}

func TestGetNote(t *testing.T) {
	router := testEnv(t, "", nil)

	var note NoteDetail
	do(t, router, get("/notes/people/bob.md"), http.StatusOK, &note)
	if note.Title != "Bob" {
		t.Errorf("title = %q, want Bob", note.Title)
	}
	if note.Tree != nil {
		t.Error("tree should be omitted unless requested")
	}
	wantLinks := []models.Link{{Source: "people/bob.md", Target: "daily", Heading: "Plans"}}
	if diff := cmp.Diff(wantLinks, note.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	wantBacklinks := []models.Link{{Source: "daily.md", Target: "people/bob", Alias: "Bob"}}
	if diff := cmp.Diff(wantBacklinks, note.Backlinks); diff != "" {
		t.Errorf("backlinks mismatch (-want +got):\n%s", diff)
	}

	do(t, router, get("/notes/people%2Fbob.md?tree=true"), http.StatusOK, &note)
	if note.Tree == nil || note.Tree.Type != "root" {
		t.Errorf("tree = %+v, want root", note.Tree)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	router := testEnv(t, "", nil)
	do(t, router, get("/notes/nope.md"), http.StatusNotFound, nil)
}

func TestGetNote_Traversal(t *testing.T) {
	router := testEnv(t, "", nil)
	do(t, router, get("/notes/..%2F..%2Fetc%2Fpasswd"), http.StatusBadRequest, nil)
}

func TestBacklinksEndpoint(t *testing.T) {
	router := testEnv(t, "", nil)
	var got BacklinksResponse
	do(t, router, get("/backlinks/daily.md"), http.StatusOK, &got)
	want := BacklinksResponse{
		Path:      "daily.md",
		Backlinks: []models.Link{{Source: "people/bob.md", Target: "daily", Heading: "Plans"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("backlinks mismatch (-want +got):\n%s", diff)
	}
}

func TestTagsEndpoints(t *testing.T) {
	router := testEnv(t, "", nil)

	var tags TagsResponse
	do(t, router, get("/tags"), http.StatusOK, &tags)
	if len(tags.Tags) != 4 {
		t.Errorf("tags = %+v, want 4 distinct tags", tags.Tags)
	}

	var notes TagNotesResponse
	do(t, router, get("/tags/project"), http.StatusOK, &notes)
	want := TagNotesResponse{Tag: "project", Notes: []string{"daily.md", "ideas/later.md"}}
	if diff := cmp.Diff(want, notes); diff != "" {
		t.Errorf("notes by tag mismatch (-want +got):\n%s", diff)
	}

	do(t, router, get("/tags/project/alpha"), http.StatusOK, &notes)
	if diff := cmp.Diff([]string{"daily.md"}, notes.Notes); diff != "" {
		t.Errorf("nested tag mismatch (-want +got):\n%s", diff)
	}
}

func TestTasksEndpoint(t *testing.T) {
	router := testEnv(t, "", nil)

	var got TasksResponse
	do(t, router, get("/tasks?char=%3F"), http.StatusOK, &got)
	want := []models.Task{
		{Path: "daily.md", Line: 8, Char: "?", Checked: true, Text: "ask about budget"},
		{Path: "ideas/later.md", Line: 3, Char: "?", Checked: true, Text: "revisit #project"},
	}
	if diff := cmp.Diff(want, got.Tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	do(t, router, get("/tasks"), http.StatusOK, &got)
	if len(got.Tasks) != 3 {
		t.Errorf("all tasks = %d, want 3", len(got.Tasks))
	}

	do(t, router, get("/tasks?char=ab"), http.StatusBadRequest, nil)
}

func TestSearchEndpoint(t *testing.T) {
	router := testEnv(t, "", nil)
	var got SearchResponse
	do(t, router, get("/search?q=budget"), http.StatusOK, &got)
	if len(got.Results) != 1 || got.Results[0].Path != "daily.md" {
		t.Errorf("results = %+v, want daily.md", got.Results)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	router := testEnv(t, "", nil)
	do(t, router, get("/search"), http.StatusBadRequest, nil)
}

func TestAuthMiddleware(t *testing.T) {
	router := testEnv(t, "secret123", nil)

	do(t, router, get("/tags"), http.StatusUnauthorized, nil)

	req := get("/tags")
	req.Header.Set("Authorization", "Bearer wrong")
	do(t, router, req, http.StatusUnauthorized, nil)

	req = get("/tags")
	req.Header.Set("Authorization", "Bearer secret123")
	do(t, router, req, http.StatusOK, nil)
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	router := testEnv(t, "", nil)
	do(t, router, get("/tags"), http.StatusOK, nil)
}

// blockingSSE writes headers and blocks until the request is done.
var blockingSSE = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnv(t, "secret", blockingSSE)
	do(t, router, get("/events"), http.StatusUnauthorized, nil)
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnv(t, "tok", blockingSSE)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := get("/events").WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with valid token = %d, want 200", w.Code)
	}
}

func TestSSEEvents_NotMountedWithoutHandler(t *testing.T) {
	router := testEnv(t, "", nil)
	do(t, router, get("/events"), http.StatusNotFound, nil)
}
