// Package obsidian is a goldmark extension for the Obsidian note dialect:
// wikilinks, ==highlights==, %%comments%%, #tags, arrows, and task list
// items with arbitrary marker characters.
//
//	md := goldmark.New(goldmark.WithExtensions(extension.GFM, obsidian.New()))
package obsidian

import (
	"log/slog"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/starford/vaultmark/internal/build"
	"github.com/starford/vaultmark/internal/scan"
	"github.com/starford/vaultmark/internal/syntax"
	"github.com/starford/vaultmark/internal/transform"
)

// Construct names, as used in Trigger.
const (
	ConstructWikilink     = "wikilink"
	ConstructHighlight    = "highlight"
	ConstructComment      = "comment"
	ConstructCommentBlock = "commentBlock"
	ConstructTag          = "tag"
	ConstructArrow        = "arrow"
)

// Trigger is one row of the dispatch table: the characters that start a
// construct and the priority it is registered with. Lower priorities are
// tried first.
type Trigger struct {
	Construct string
	Chars     []byte
	Priority  int
	Block     bool
}

type entry struct {
	Trigger
	enabled    func(Config) bool
	recognizer func() scan.Recognizer
	builder    build.Extension
}

// dispatch is the full table; Extend registers the rows the config enables.
// Wikilinks go before goldmark's link parser (200); arrows after autolinks
// and raw HTML (300, 400); the comment block before paragraphs (1000).
var dispatch = []entry{
	{
		Trigger:    Trigger{Construct: ConstructWikilink, Chars: []byte{'!', '['}, Priority: 199},
		enabled:    func(c Config) bool { return on(c.Wikilinks) },
		recognizer: syntax.NewWikilink,
		builder:    build.WikilinkExtension,
	},
	{
		Trigger:    Trigger{Construct: ConstructArrow, Chars: []byte{'-', '=', '<'}, Priority: 450},
		enabled:    func(c Config) bool { return on(c.Arrows) },
		recognizer: syntax.NewArrow,
		builder:    build.ArrowExtension,
	},
	{
		Trigger:    Trigger{Construct: ConstructHighlight, Chars: []byte{'='}, Priority: 500},
		enabled:    func(c Config) bool { return on(c.Highlights) },
		recognizer: syntax.NewHighlight,
		builder:    build.HighlightExtension,
	},
	{
		Trigger:    Trigger{Construct: ConstructComment, Chars: []byte{'%'}, Priority: 500},
		enabled:    func(c Config) bool { return on(c.Comments) },
		recognizer: syntax.NewTextComment,
		builder:    build.CommentExtension,
	},
	{
		Trigger:    Trigger{Construct: ConstructTag, Chars: []byte{'#'}, Priority: 500},
		enabled:    func(c Config) bool { return on(c.Tags) },
		recognizer: syntax.NewTag,
		builder:    build.TagExtension,
	},
	{
		Trigger:    Trigger{Construct: ConstructCommentBlock, Chars: []byte{'%'}, Priority: 850, Block: true},
		enabled:    func(c Config) bool { return on(c.Comments) },
		recognizer: syntax.NewFlowComment,
		builder:    build.CommentFlowExtension,
	},
}

// Extension installs the dialect into a goldmark.Markdown.
type Extension struct {
	config Config
	logger *slog.Logger
}

// New returns an Extension with every construct enabled unless an option
// says otherwise.
func New(opts ...Option) *Extension {
	x := &Extension{logger: slog.Default()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Config returns the toggles in effect.
func (x *Extension) Config() Config { return x.config }

// Triggers returns the enabled rows of the dispatch table in priority order.
func (x *Extension) Triggers() []Trigger {
	var out []Trigger
	for _, e := range x.entries() {
		out = append(out, e.Trigger)
	}
	return out
}

func (x *Extension) entries() []entry {
	var out []entry
	for _, e := range dispatch {
		if e.enabled(x.config) {
			out = append(out, e)
		}
	}
	return out
}

// Extend implements goldmark.Extender.
func (x *Extension) Extend(m goldmark.Markdown) {
	var inlines, blocks []util.PrioritizedValue
	for _, e := range x.entries() {
		if e.Block {
			blocks = append(blocks, util.Prioritized(newCommentBlockParser(e.recognizer, e.builder), e.Priority))
			continue
		}
		inlines = append(inlines, util.Prioritized(&inlineParser{
			trigger:    e.Chars,
			recognizer: e.recognizer,
			builder:    e.builder,
		}, e.Priority))
	}
	opts := []parser.Option{
		parser.WithInlineParsers(inlines...),
		parser.WithBlockParsers(blocks...),
	}
	if t := x.Transformer(); t != nil {
		opts = append(opts, parser.WithASTTransformers(util.Prioritized(t, 100)))
	}
	m.Parser().AddOptions(opts...)

	x.logger.Debug("obsidian extension installed",
		slog.Int("inline_parsers", len(inlines)),
		slog.Int("block_parsers", len(blocks)),
		slog.Bool("transform", x.Transformer() != nil),
	)
}

// Transformer returns the post-parse rewrite for the enabled toggles, or nil
// when neither comments nor custom task characters are enabled.
func (x *Extension) Transformer() parser.ASTTransformer {
	t := &astTransformer{
		comments:  on(x.config.Comments),
		taskChars: on(x.config.CustomTaskChars),
	}
	if !t.comments && !t.taskChars {
		return nil
	}
	return t
}

type astTransformer struct {
	comments  bool
	taskChars bool
}

func (t *astTransformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	if t.comments {
		transform.RemoveComments(doc)
	}
	if t.taskChars {
		transform.TaskChars(doc, reader.Source())
	}
}
