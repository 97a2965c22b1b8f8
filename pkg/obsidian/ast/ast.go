// Package ast defines the goldmark nodes produced by the obsidian extension.
package ast

import (
	"strconv"

	gast "github.com/yuin/goldmark/ast"
)

// AttrTaskChar is the attribute carrying a task list item's marker character.
// It is set on the list item and on its checkbox.
const AttrTaskChar = "data-task-char"

// KindWikilink is the NodeKind of Wikilink.
var KindWikilink = gast.NewNodeKind("Wikilink")

// Wikilink is an internal link [[path#heading|alias]]. Embedded is set for
// the ![[...]] form. Path is opaque: it is never resolved against a vault.
type Wikilink struct {
	gast.BaseInline
	Embedded bool
	Path     []byte
	Heading  []byte
	Alias    []byte
}

// Kind implements Node.Kind.
func (n *Wikilink) Kind() gast.NodeKind { return KindWikilink }

// Dump implements Node.Dump.
func (n *Wikilink) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Embedded": strconv.FormatBool(n.Embedded),
		"Path":     string(n.Path),
		"Heading":  string(n.Heading),
		"Alias":    string(n.Alias),
	}, nil)
}

// Target returns the path and heading joined as they were written, which is
// the text a renderer shows when no alias is given.
func (n *Wikilink) Target() string {
	if len(n.Heading) == 0 {
		return string(n.Path)
	}
	return string(n.Path) + "#" + string(n.Heading)
}

// NewWikilink returns an empty Wikilink.
func NewWikilink() *Wikilink { return &Wikilink{} }

// KindHighlight is the NodeKind of Highlight.
var KindHighlight = gast.NewNodeKind("Highlight")

// Highlight is ==marked== text. Its single child is the Text between the
// markers.
type Highlight struct {
	gast.BaseInline
}

// Kind implements Node.Kind.
func (n *Highlight) Kind() gast.NodeKind { return KindHighlight }

// Dump implements Node.Dump.
func (n *Highlight) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// NewHighlight returns an empty Highlight.
func NewHighlight() *Highlight { return &Highlight{} }

// KindComment is the NodeKind of Comment.
var KindComment = gast.NewNodeKind("Comment")

// Comment is an inline %%comment%%.
type Comment struct {
	gast.BaseInline
	Value []byte
}

// Kind implements Node.Kind.
func (n *Comment) Kind() gast.NodeKind { return KindComment }

// Dump implements Node.Dump.
func (n *Comment) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// NewComment returns an empty Comment.
func NewComment() *Comment { return &Comment{} }

// KindCommentBlock is the NodeKind of CommentBlock.
var KindCommentBlock = gast.NewNodeKind("CommentBlock")

// CommentBlock is a %% comment %% that starts a block and may span lines.
// Value joins the lines with their original line endings.
type CommentBlock struct {
	gast.BaseBlock
	Value []byte
}

// Kind implements Node.Kind.
func (n *CommentBlock) Kind() gast.NodeKind { return KindCommentBlock }

// IsRaw implements Node.IsRaw.
func (n *CommentBlock) IsRaw() bool { return true }

// Dump implements Node.Dump.
func (n *CommentBlock) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// NewCommentBlock returns an empty CommentBlock.
func NewCommentBlock() *CommentBlock { return &CommentBlock{} }

// KindTag is the NodeKind of Tag.
var KindTag = gast.NewNodeKind("Tag")

// Tag is a #tag. Value excludes the leading '#'.
type Tag struct {
	gast.BaseInline
	Value []byte
}

// Kind implements Node.Kind.
func (n *Tag) Kind() gast.NodeKind { return KindTag }

// Dump implements Node.Dump.
func (n *Tag) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// NewTag returns an empty Tag.
func NewTag() *Tag { return &Tag{} }

// KindArrow is the NodeKind of Arrow.
var KindArrow = gast.NewNodeKind("Arrow")

// Arrow is a typographic arrow such as ->. Value holds the HTML entity for
// known spellings and the raw text otherwise.
type Arrow struct {
	gast.BaseInline
	Value []byte
}

// Kind implements Node.Kind.
func (n *Arrow) Kind() gast.NodeKind { return KindArrow }

// Dump implements Node.Dump.
func (n *Arrow) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// NewArrow returns an empty Arrow.
func NewArrow() *Arrow { return &Arrow{} }
