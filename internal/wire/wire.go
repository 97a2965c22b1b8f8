// Package wire converts goldmark trees into mdast-shaped JSON nodes.
package wire

import (
	"bytes"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

// Node is one exported tree node. Field names are the wire contract.
type Node struct {
	Type     string  `json:"type"`
	Value    string  `json:"value,omitempty"`
	Depth    int     `json:"depth,omitempty"`
	Ordered  *bool   `json:"ordered,omitempty"`
	Checked  *bool   `json:"checked,omitempty"`
	URL      string  `json:"url,omitempty"`
	Title    string  `json:"title,omitempty"`
	Alt      string  `json:"alt,omitempty"`
	Lang     string  `json:"lang,omitempty"`
	Embedded *bool   `json:"embedded,omitempty"`
	Path     *string `json:"path,omitempty"`
	Heading  *string `json:"heading,omitempty"`
	Alias    *string `json:"alias,omitempty"`
	Data     *Data   `json:"data,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Data carries node metadata.
type Data struct {
	TaskChar string `json:"taskChar,omitempty"`
}

// Export converts n and its descendants.
func Export(n gast.Node, source []byte) *Node {
	out := &Node{Type: typeName(n)}

	switch n := n.(type) {
	case *gast.Heading:
		out.Depth = n.Level
	case *gast.List:
		ordered := n.IsOrdered()
		out.Ordered = &ordered
	case *gast.ListItem:
		if c, ok := ast.TaskChar(n); ok {
			out.Data = &Data{TaskChar: string(c)}
		}
		if box := checkbox(n); box != nil {
			checked := box.IsChecked
			out.Checked = &checked
		}
	case *gast.FencedCodeBlock:
		out.Lang = string(n.Language(source))
		out.Value = strings.TrimSuffix(lines(n, source), "\n")
		return out
	case *gast.CodeBlock:
		out.Value = strings.TrimSuffix(lines(n, source), "\n")
		return out
	case *gast.HTMLBlock:
		v := lines(n, source)
		if n.HasClosure() {
			v += string(n.ClosureLine.Value(source))
		}
		out.Value = strings.TrimSuffix(v, "\n")
		return out
	case *gast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(source))
		}
		out.Value = b.String()
		return out
	case *gast.CodeSpan:
		out.Value = textContent(n, source)
		return out
	case *gast.Link:
		out.URL = string(n.Destination)
		out.Title = string(n.Title)
	case *gast.Image:
		out.URL = string(n.Destination)
		out.Title = string(n.Title)
		out.Alt = textContent(n, source)
		return out
	case *gast.AutoLink:
		out.URL = string(n.URL(source))
		out.Children = []*Node{{Type: "text", Value: string(n.Label(source))}}
		return out
	case *gast.Text:
		out.Value = string(n.Segment.Value(source))
		return out
	case *gast.String:
		out.Value = string(n.Value)
		return out
	case *ast.Wikilink:
		embedded := n.Embedded
		path, heading, alias := string(n.Path), string(n.Heading), string(n.Alias)
		out.Embedded, out.Path, out.Heading, out.Alias = &embedded, &path, &heading, &alias
		return out
	case *ast.Comment:
		out.Value = string(n.Value)
		return out
	case *ast.CommentBlock:
		out.Value = string(n.Value)
		return out
	case *ast.Tag:
		out.Value = string(n.Value)
		return out
	case *ast.Arrow:
		out.Value = string(n.Value)
		return out
	}

	out.Children = children(n, source)
	return out
}

// children exports the children of n, merging adjacent text runs and
// turning line breaks into newlines or break nodes.
func children(n gast.Node, source []byte) []*Node {
	var out []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() == extast.KindTaskCheckBox {
			continue
		}
		child := Export(c, source)
		if t, ok := c.(*gast.Text); ok {
			if t.SoftLineBreak() {
				child.Value += "\n"
			}
			if last := len(out) - 1; last >= 0 && out[last].Type == "text" && len(out[last].Children) == 0 {
				out[last].Value += child.Value
			} else {
				out = append(out, child)
			}
			if t.HardLineBreak() {
				out = append(out, &Node{Type: "break"})
			}
			continue
		}
		out = append(out, child)
	}
	return out
}

func typeName(n gast.Node) string {
	switch n := n.(type) {
	case *gast.Document:
		return "root"
	case *gast.Paragraph, *gast.TextBlock:
		return "paragraph"
	case *gast.Heading:
		return "heading"
	case *gast.ThematicBreak:
		return "thematicBreak"
	case *gast.Blockquote:
		return "blockquote"
	case *gast.List:
		return "list"
	case *gast.ListItem:
		return "listItem"
	case *gast.FencedCodeBlock, *gast.CodeBlock:
		return "code"
	case *gast.HTMLBlock, *gast.RawHTML:
		return "html"
	case *gast.Text, *gast.String:
		return "text"
	case *gast.CodeSpan:
		return "inlineCode"
	case *gast.Emphasis:
		if n.Level >= 2 {
			return "strong"
		}
		return "emphasis"
	case *gast.Link, *gast.AutoLink:
		return "link"
	case *gast.Image:
		return "image"
	case *extast.Strikethrough:
		return "delete"
	case *extast.Table:
		return "table"
	case *extast.TableHeader, *extast.TableRow:
		return "tableRow"
	case *extast.TableCell:
		return "tableCell"
	case *ast.Wikilink:
		return "wikilink"
	case *ast.Highlight:
		return "highlight"
	case *ast.Comment, *ast.CommentBlock:
		return "comment"
	case *ast.Tag:
		return "tag"
	case *ast.Arrow:
		return "arrow"
	}
	k := n.Kind().String()
	return strings.ToLower(k[:1]) + k[1:]
}

func checkbox(item *gast.ListItem) *extast.TaskCheckBox {
	block := item.FirstChild()
	if block == nil {
		return nil
	}
	box, _ := block.FirstChild().(*extast.TaskCheckBox)
	return box
}

func lines(n gast.Node, source []byte) string {
	var b bytes.Buffer
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// textContent concatenates the literal text below n.
func textContent(n gast.Node, source []byte) string {
	var b bytes.Buffer
	_ = gast.Walk(n, func(c gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *gast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gast.String:
			b.Write(c.Value)
		}
		return gast.WalkContinue, nil
	})
	return b.String()
}
