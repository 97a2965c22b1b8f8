package build

import (
	"testing"

	gast "github.com/yuin/goldmark/ast"

	"github.com/starford/vaultmark/internal/scan"
	"github.com/starford/vaultmark/internal/syntax"
	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

func buildFrom(t *testing.T, r scan.Recognizer, ext Extension, input string) gast.Node {
	t.Helper()
	e := scan.NewEffects([]byte(input), 0, scan.EOF)
	if status := scan.Run(r, e); status != scan.Matched {
		t.Fatalf("%q: status = %v, want matched", input, status)
	}
	n := Build(e.Result(), ext)
	if n == nil {
		t.Fatalf("%q: no node built", input)
	}
	return n
}

func TestWikilink_Fields(t *testing.T) {
	tests := []struct {
		input    string
		embedded bool
		path     string
		heading  string
		alias    string
	}{
		{"[[Note]]", false, "Note", "", ""},
		{"[[Note|Shown]]", false, "Note", "", "Shown"},
		{"[[Note#Part]]", false, "Note", "Part", ""},
		{"[[Note#Part|Shown]]", false, "Note", "Part", "Shown"},
		{"![[pic.png]]", true, "pic.png", "", ""},
		{"[[#Local]]", false, "", "Local", ""},
		{`[[image\|800]]`, false, "image", "", "800"},
		{`[[Note#Part\|Shown]]`, false, "Note", "Part", "Shown"},
		{`[[a\#b]]`, false, "a#b", "", ""},
		{`[[a\[1\]]]`, false, "a[1]", "", ""},
		{`[[a\b]]`, false, `a\b`, "", ""},
		{`[[a\|]]`, false, `a\`, "", ""},
		{`[[a\\#h|x]]`, false, `a\`, "h", "x"},
		{`[[a#h\|x]]`, false, "a", "h", "x"},
	}
	for _, tt := range tests {
		n, ok := buildFrom(t, syntax.NewWikilink(), WikilinkExtension, tt.input).(*ast.Wikilink)
		if !ok {
			t.Fatalf("%q: node is not a wikilink", tt.input)
		}
		if n.Embedded != tt.embedded || string(n.Path) != tt.path || string(n.Heading) != tt.heading || string(n.Alias) != tt.alias {
			t.Errorf("%q = {%v %q %q %q}, want {%v %q %q %q}", tt.input,
				n.Embedded, n.Path, n.Heading, n.Alias,
				tt.embedded, tt.path, tt.heading, tt.alias)
		}
	}
}

// escape is the inverse of Unescape.
func escape(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case '#', '[', ']':
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return out
}

func TestEscape_RoundTrip(t *testing.T) {
	for _, path := range []string{"plain", "a#b", "x[1]", `back\slash`} {
		input := "[[" + string(escape([]byte(path))) + "]]"
		n := buildFrom(t, syntax.NewWikilink(), WikilinkExtension, input).(*ast.Wikilink)
		if string(n.Path) != path {
			t.Errorf("%q: path = %q, want %q", input, n.Path, path)
		}
	}
}

func TestHighlight_TextChild(t *testing.T) {
	source := []byte("==marked==")
	n := buildFrom(t, syntax.NewHighlight(), HighlightExtension, string(source))
	if n.Kind() != ast.KindHighlight {
		t.Fatalf("kind = %v, want Highlight", n.Kind())
	}
	if n.ChildCount() != 1 {
		t.Fatalf("children = %d, want 1", n.ChildCount())
	}
	txt, ok := n.FirstChild().(*gast.Text)
	if !ok {
		t.Fatalf("child is %T, want *ast.Text", n.FirstChild())
	}
	if got := string(txt.Segment.Value(source)); got != "marked" {
		t.Errorf("text = %q, want %q", got, "marked")
	}
}

func TestComment_Value(t *testing.T) {
	n := buildFrom(t, syntax.NewTextComment(), CommentExtension, "%%note to self%%").(*ast.Comment)
	if string(n.Value) != "note to self" {
		t.Errorf("value = %q", n.Value)
	}
}

func TestCommentFlow_Value(t *testing.T) {
	r := syntax.NewFlowComment()
	e := scan.NewEffects([]byte("%%one\n"), 0, scan.EOF)
	e.SetPartial(true)
	if status := scan.Run(r, e); status != scan.Suspended {
		t.Fatalf("status = %v, want suspended", status)
	}
	e.Feed([]byte("two%%\n"), 8, false)
	if status := scan.Resume(r, e); status != scan.Matched {
		t.Fatalf("status = %v, want matched", status)
	}
	n := Build(e.Result(), CommentFlowExtension).(*ast.CommentBlock)
	if string(n.Value) != "one\ntwo" {
		t.Errorf("value = %q, want %q", n.Value, "one\ntwo")
	}
}

func TestTag_Value(t *testing.T) {
	n := buildFrom(t, syntax.NewTag(), TagExtension, "#project/alpha").(*ast.Tag)
	if string(n.Value) != "project/alpha" {
		t.Errorf("value = %q", n.Value)
	}
}

func TestArrow_Table(t *testing.T) {
	want := map[string]string{
		"->":  "&rarr;",
		"-->": "&rArr;",
		"=>":  "&rArr;",
		"==>": "&rArr;",
		"<-":  "&larr;",
		"<--": "&lArr;",
		"<=":  "&lArr;",
		"<==": "&lArr;",
	}
	for raw, entity := range want {
		n := buildFrom(t, syntax.NewArrow(), ArrowExtension, raw).(*ast.Arrow)
		if string(n.Value) != entity {
			t.Errorf("%q: value = %q, want %q", raw, n.Value, entity)
		}
	}
	if got := ArrowEntity("<~"); got != "<~" {
		t.Errorf("unknown spelling = %q, want identity", got)
	}
}

func TestContext_Stack(t *testing.T) {
	c := &Context{}
	outer := ast.NewHighlight()
	inner := ast.NewTag()
	c.Push(outer)
	c.Push(inner)
	if c.Top() != inner {
		t.Error("top should be the last pushed node")
	}
	if inner.Parent() != outer {
		t.Error("pushed node should become a child of the top")
	}
	c.Pop()
	c.Pop()
	if c.Pop() != nil || c.Top() != nil {
		t.Error("empty stack should return nil")
	}
	if c.root != outer {
		t.Error("root should be the first pushed node")
	}
}
