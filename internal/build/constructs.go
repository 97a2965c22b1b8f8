package build

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/starford/vaultmark/internal/scan"
	"github.com/starford/vaultmark/internal/syntax"
	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

// WikilinkExtension builds ast.Wikilink nodes.
var WikilinkExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindWikilink: func(c *Context, _ scan.Token) { c.Push(ast.NewWikilink()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindWikilinkEmbedMarker: func(c *Context, _ scan.Token) {
			c.Top().(*ast.Wikilink).Embedded = true
		},
		syntax.KindWikilinkPath: func(c *Context, t scan.Token) {
			c.Top().(*ast.Wikilink).Path = c.Copy(t)
		},
		syntax.KindWikilinkHeading: func(c *Context, t scan.Token) {
			c.Top().(*ast.Wikilink).Heading = c.Copy(t)
		},
		syntax.KindWikilinkAlias: func(c *Context, t scan.Token) {
			c.Top().(*ast.Wikilink).Alias = c.Copy(t)
		},
		syntax.KindWikilink: func(c *Context, _ scan.Token) {
			n := c.Pop().(*ast.Wikilink)
			n.Path = Unescape(n.Path)
			n.Heading = Unescape(n.Heading)
			// With an alias, a trailing backslash is the one that escaped
			// the separator, as in [[image\|800]].
			if len(n.Alias) > 0 {
				n.Path = bytes.TrimSuffix(n.Path, []byte{'\\'})
				n.Heading = bytes.TrimSuffix(n.Heading, []byte{'\\'})
			}
		},
	},
}

// Unescape resolves the backslash escapes allowed in wikilink paths and
// headings: \#, \[ and \]. Other backslashes are kept.
func Unescape(b []byte) []byte {
	if bytes.IndexByte(b, '\\') < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			switch b[i+1] {
			case '#', '[', ']':
				i++
			}
		}
		out = append(out, b[i])
	}
	return out
}

// HighlightExtension builds ast.Highlight nodes with one text child.
var HighlightExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindHighlight: func(c *Context, _ scan.Token) { c.Push(ast.NewHighlight()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindHighlightContent: func(c *Context, t scan.Token) {
			top := c.Top()
			top.AppendChild(top, gast.NewTextSegment(text.NewSegment(t.Start, t.End)))
		},
		syntax.KindHighlight: pop,
	},
}

// CommentExtension builds inline ast.Comment nodes.
var CommentExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindComment: func(c *Context, _ scan.Token) { c.Push(ast.NewComment()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindCommentContent: func(c *Context, t scan.Token) {
			c.Top().(*ast.Comment).Value = c.Copy(t)
		},
		syntax.KindComment: pop,
	},
}

// CommentFlowExtension builds ast.CommentBlock nodes.
var CommentFlowExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindComment: func(c *Context, _ scan.Token) { c.Push(ast.NewCommentBlock()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindCommentContent: func(c *Context, t scan.Token) {
			c.Top().(*ast.CommentBlock).Value = c.Copy(t)
		},
		syntax.KindComment: pop,
	},
}

// TagExtension builds ast.Tag nodes.
var TagExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindTag: func(c *Context, _ scan.Token) { c.Push(ast.NewTag()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindTagContent: func(c *Context, t scan.Token) {
			c.Top().(*ast.Tag).Value = c.Copy(t)
		},
		syntax.KindTag: pop,
	},
}

var arrowEntities = map[string]string{
	"->":  "&rarr;",
	"-->": "&rArr;",
	"=>":  "&rArr;",
	"==>": "&rArr;",
	"<-":  "&larr;",
	"<--": "&lArr;",
	"<=":  "&lArr;",
	"<==": "&lArr;",
}

// ArrowEntity maps an arrow spelling to its HTML entity. Unknown spellings
// are returned unchanged.
func ArrowEntity(raw string) string {
	if v, ok := arrowEntities[raw]; ok {
		return v
	}
	return raw
}

// ArrowExtension builds ast.Arrow nodes.
var ArrowExtension = Extension{
	Enter: map[scan.Kind]Handler{
		syntax.KindArrow: func(c *Context, _ scan.Token) { c.Push(ast.NewArrow()) },
	},
	Exit: map[scan.Kind]Handler{
		syntax.KindArrowContent: func(c *Context, t scan.Token) {
			c.Top().(*ast.Arrow).Value = []byte(ArrowEntity(string(c.Slice(t))))
		},
		syntax.KindArrow: pop,
	},
}
