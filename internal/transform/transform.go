// Package transform holds the tree rewrites run after parsing.
package transform

import (
	"unicode/utf8"

	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

// RemoveComments deletes every Comment and CommentBlock below n.
func RemoveComments(n gast.Node) {
	for c := n.FirstChild(); c != nil; {
		next := c.NextSibling()
		switch c.Kind() {
		case ast.KindComment, ast.KindCommentBlock:
			n.RemoveChild(n, c)
		default:
			RemoveComments(c)
		}
		c = next
	}
}

// TaskChars records the task character of every list item below doc.
//
// Items that already have a checkbox get 'x' or ' ' from its state. Other
// items are checked for a leading "[c] " in their first paragraph; on a match
// the marker is replaced by a checkbox carrying c.
func TaskChars(doc gast.Node, source []byte) {
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if item, ok := n.(*gast.ListItem); ok && entering {
			taskChar(item, source)
		}
		return gast.WalkContinue, nil
	})
}

func taskChar(item *gast.ListItem, source []byte) {
	block := item.FirstChild()
	if block == nil || (block.Kind() != gast.KindParagraph && block.Kind() != gast.KindTextBlock) {
		return
	}
	if box, ok := block.FirstChild().(*extast.TaskCheckBox); ok {
		c := ' '
		if box.IsChecked {
			c = 'x'
		}
		ast.SetTaskChar(item, c)
		ast.SetTaskChar(box, c)
		return
	}

	// The marker may be split over several text nodes, since '[' and ']'
	// are inline triggers.
	var (
		texts  []*gast.Text
		prefix []byte
	)
	for c := block.FirstChild(); c != nil && len(prefix) < 8; c = c.NextSibling() {
		t, ok := c.(*gast.Text)
		if !ok {
			break
		}
		texts = append(texts, t)
		prefix = append(prefix, t.Segment.Value(source)...)
		if t.SoftLineBreak() || t.HardLineBreak() {
			prefix = append(prefix, '\n')
			break
		}
	}
	c, n, ok := matchMarker(prefix)
	if !ok {
		return
	}

	for _, t := range texts {
		if n == 0 {
			break
		}
		l := t.Segment.Len()
		if n < l {
			t.Segment = t.Segment.WithStart(t.Segment.Start + n)
			break
		}
		n -= l
		block.RemoveChild(block, t)
	}

	box := extast.NewTaskCheckBox(c != ' ')
	if first := block.FirstChild(); first != nil {
		block.InsertBefore(block, first, box)
	} else {
		block.AppendChild(block, box)
	}
	ast.SetTaskChar(item, c)
	ast.SetTaskChar(box, c)
}

// matchMarker matches '[', one character other than ']', ']' and one
// whitespace character at the start of b. n is the number of bytes to strip;
// a trailing line break stands for the end of a text node and is not counted.
func matchMarker(b []byte) (c rune, n int, ok bool) {
	if len(b) < 4 || b[0] != '[' {
		return 0, 0, false
	}
	c, size := utf8.DecodeRune(b[1:])
	if c == ']' || c == utf8.RuneError || c == '\n' {
		return 0, 0, false
	}
	i := 1 + size
	if i+1 >= len(b) || b[i] != ']' {
		return 0, 0, false
	}
	switch b[i+1] {
	case ' ', '\t':
		return c, i + 2, true
	case '\n':
		return c, i + 1, true
	}
	return 0, 0, false
}
