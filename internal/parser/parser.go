// Package parser extracts frontmatter, wikilinks, tags, and tasks from
// Markdown notes.
package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/starford/vaultmark/internal/models"
	"github.com/starford/vaultmark/internal/wire"
	"github.com/starford/vaultmark/pkg/obsidian"
	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Body        string                 `json:"-"`
	Title       string                 `json:"title"`
	Links       []models.Link          `json:"links"`
	Tags        []string               `json:"tags"`
	Tasks       []models.Task          `json:"tasks"`
	Highlights  []string               `json:"highlights"`
	Tree        *wire.Node             `json:"tree,omitempty"`
}

// Parser parses notes with a fixed set of dialect toggles. It is safe for
// concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New returns a Parser for GFM plus the dialect constructs enabled in cfg.
func New(cfg obsidian.Config) *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(
			extension.GFM,
			obsidian.New(obsidian.WithConfig(cfg)),
		)),
	}
}

var defaultParser = New(obsidian.Config{})

// Parse parses data with every construct enabled.
func Parse(data []byte) (*Result, error) {
	return defaultParser.Parse(data)
}

// Parse extracts frontmatter and everything the dialect marks up in the body.
func (p *Parser) Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)
	source := []byte(body)
	doc := p.md.Parser().Parse(text.NewReader(source))

	// Offsets in the body are shifted by whatever was stripped before it,
	// including an empty frontmatter block.
	lineBase := 1 + bytes.Count(data[:len(data)-len(body)], []byte("\n"))

	c := &collector{source: source, lineBase: lineBase, seenTags: map[string]struct{}{}}
	c.addFrontmatterTags(fm)
	_ = gast.Walk(doc, c.visit)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, c.firstH1),
		Links:       nonNil(c.links),
		Tags:        nonNil(c.tags),
		Tasks:       nonNil(c.tasks),
		Highlights:  nonNil(c.highlights),
		Tree:        wire.Export(doc, source),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no valid frontmatter is found the entire content
// is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

type linkKey struct {
	path, heading, alias string
	embedded             bool
}

// collector gathers note facts in a single tree walk.
type collector struct {
	source   []byte
	lineBase int

	firstH1    string
	links      []models.Link
	seenLinks  map[linkKey]struct{}
	tags       []string
	seenTags   map[string]struct{}
	tasks      []models.Task
	highlights []string
}

func (c *collector) visit(n gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	switch n := n.(type) {
	case *gast.Heading:
		if n.Level == 1 && c.firstH1 == "" {
			c.firstH1 = strings.TrimSpace(plainText(n, c.source))
		}
	case *ast.Wikilink:
		c.addLink(n)
	case *ast.Tag:
		c.addTag(string(n.Value))
	case *ast.Highlight:
		c.highlights = append(c.highlights, plainText(n, c.source))
	case *gast.ListItem:
		if ch, ok := ast.TaskChar(n); ok {
			c.addTask(n, ch)
		} else if box := checkbox(n); box != nil {
			ch := ' '
			if box.IsChecked {
				ch = 'x'
			}
			c.addTask(n, ch)
		}
	}
	return gast.WalkContinue, nil
}

func (c *collector) addLink(n *ast.Wikilink) {
	// An empty path is a link into the note itself.
	if len(n.Path) == 0 {
		return
	}
	k := linkKey{string(n.Path), string(n.Heading), string(n.Alias), n.Embedded}
	if c.seenLinks == nil {
		c.seenLinks = map[linkKey]struct{}{}
	}
	if _, dup := c.seenLinks[k]; dup {
		return
	}
	c.seenLinks[k] = struct{}{}
	c.links = append(c.links, models.Link{
		Target:   k.path,
		Heading:  k.heading,
		Alias:    k.alias,
		Embedded: k.embedded,
	})
}

func (c *collector) addTag(tag string) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return
	}
	if _, dup := c.seenTags[tag]; dup {
		return
	}
	c.seenTags[tag] = struct{}{}
	c.tags = append(c.tags, tag)
}

// addFrontmatterTags accepts both a YAML list and a comma separated string.
func (c *collector) addFrontmatterTags(fm map[string]interface{}) {
	if fm == nil {
		return
	}
	switch v := fm["tags"].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				c.addTag(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			c.addTag(s)
		}
	}
}

func (c *collector) addTask(item *gast.ListItem, ch rune) {
	block := item.FirstChild()
	if block == nil {
		return
	}
	task := models.Task{Char: string(ch), Line: c.lineBase}
	if box := checkbox(item); box != nil {
		task.Checked = box.IsChecked
	}
	if start, ok := firstOffset(block); ok {
		task.Line += bytes.Count(c.source[:start], []byte("\n"))
	}
	task.Text = strings.TrimSpace(plainText(block, c.source))
	c.tasks = append(c.tasks, task)
}

func checkbox(item *gast.ListItem) *extast.TaskCheckBox {
	if block := item.FirstChild(); block != nil {
		box, _ := block.FirstChild().(*extast.TaskCheckBox)
		return box
	}
	return nil
}

// firstOffset returns the source offset of the first text below n.
func firstOffset(n gast.Node) (int, bool) {
	if n.Type() == gast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			return t.Segment.Start, true
		}
		if off, ok := firstOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}

// plainText concatenates the visible text below n. Wikilinks contribute
// their alias, or their target when there is none.
func plainText(n gast.Node, source []byte) string {
	var b strings.Builder
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
		case *ast.Wikilink:
			if len(c.Alias) > 0 {
				b.Write(c.Alias)
			} else {
				b.WriteString(c.Target())
			}
		case *ast.Tag:
			b.WriteByte('#')
			b.Write(c.Value)
		case *ast.Arrow:
			b.WriteString(arrowGlyph(string(c.Value)))
		}
		return gast.WalkContinue, nil
	})
	return b.String()
}

var arrowGlyphs = map[string]string{
	"&rarr;": "→",
	"&rArr;": "⇒",
	"&larr;": "←",
	"&lArr;": "⇐",
}

func arrowGlyph(entity string) string {
	if g, ok := arrowGlyphs[entity]; ok {
		return g
	}
	return entity
}

// deriveTitle returns the frontmatter "title" if present, otherwise the text
// of the first H1 heading.
func deriveTitle(fm map[string]interface{}, firstH1 string) string {
	if fm != nil {
		if s, ok := fm["title"].(string); ok && s != "" {
			return s
		}
	}
	return firstH1
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
