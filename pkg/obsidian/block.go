package obsidian

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/starford/vaultmark/internal/build"
	"github.com/starford/vaultmark/internal/scan"
	"github.com/starford/vaultmark/pkg/obsidian/ast"
)

var (
	commentBlockInfoKey = parser.NewContextKey()
	closeMarkerKey      = parser.NewContextKey()
)

// commentBlockData is the state of the comment block being parsed.
type commentBlockData struct {
	effects *scan.Effects
	rec     scan.Recognizer
	value   []byte
	done    bool
	// literal is set when the collected lines turn out not to be a comment
	// block and must be parsed as a paragraph.
	literal bool
	// interrupted is the paragraph the block cut short, if any.
	interrupted *gast.Paragraph
}

// closeMarker caches the offset of the first %% at or after from, or -1 when
// there is none. Lookups only move forward through the document, so each
// byte is scanned once per parse.
type closeMarker struct {
	from, at int
}

// closeAhead reports whether %% occurs at or after offset pos.
func closeAhead(pc parser.Context, src []byte, pos int) bool {
	c, _ := pc.Get(closeMarkerKey).(*closeMarker)
	if c == nil || pos < c.from || (c.at >= 0 && c.at < pos) {
		c = &closeMarker{from: pos, at: -1}
		if i := bytes.Index(src[pos:], []byte("%%")); i >= 0 {
			c.at = pos + i
		}
		pc.Set(closeMarkerKey, c)
	}
	return c.at >= 0
}

// commentBlockParser opens a CommentBlock on a line starting with %% and
// feeds following lines to the flow recognizer until it closes.
//
// Lines are only fed while every enclosing container continues. When a
// container ends first, Close sees an unfinished comment and the collected
// lines become a plain paragraph. The same happens when text follows the
// closing %% on its line.
type commentBlockParser struct {
	recognizer func() scan.Recognizer
	builder    build.Extension
}

func newCommentBlockParser(r func() scan.Recognizer, b build.Extension) parser.BlockParser {
	return &commentBlockParser{recognizer: r, builder: b}
}

func (b *commentBlockParser) Trigger() []byte { return []byte{'%'} }

func (b *commentBlockParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte("%%")) {
		return nil, parser.NoChildren
	}
	// Without a closing marker anywhere ahead this can only be text.
	start := segment.Start + pos
	if !closeAhead(pc, reader.Source(), start+2) {
		return nil, parser.NoChildren
	}

	data := &commentBlockData{
		effects: scan.NewEffects(line[pos:], start, scan.EOF),
		rec:     b.recognizer(),
	}
	if para, ok := pc.LastOpenedBlock().Node.(*gast.Paragraph); ok {
		data.interrupted = para
	}
	data.effects.SetPartial(true)
	switch scan.Run(data.rec, data.effects) {
	case scan.Failed:
		return nil, parser.NoChildren
	case scan.Matched:
		res := data.effects.Result()
		if !util.IsBlank(line[res.End-segment.Start:]) {
			// %%inline%% followed by text is left to the inline parser.
			return nil, parser.NoChildren
		}
		data.finish(res, b.builder)
	}

	node := ast.NewCommentBlock()
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	pc.Set(commentBlockInfoKey, data)
	return node, parser.NoChildren
}

func (b *commentBlockParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	data, ok := pc.Get(commentBlockInfoKey).(*commentBlockData)
	if !ok || data.done {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	data.effects.Feed(line, segment.Start, true)
	switch scan.Resume(data.rec, data.effects) {
	case scan.Matched:
		res := data.effects.Result()
		if util.IsBlank(line[res.End-segment.Start:]) {
			data.finish(res, b.builder)
		} else {
			data.done, data.literal = true, true
		}
	case scan.Failed:
		data.done, data.literal = true, true
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (b *commentBlockParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	data, _ := pc.Get(commentBlockInfoKey).(*commentBlockData)
	pc.Set(commentBlockInfoKey, nil)
	if data == nil {
		replaceWithParagraphs(node, nil, reader.Source())
		return
	}
	if data.done && !data.literal {
		node.(*ast.CommentBlock).Value = data.value
		return
	}
	if !data.done {
		data.effects.Abort()
	}
	replaceWithParagraphs(node, data.interrupted, reader.Source())
}

// replaceWithParagraphs turns the lines of an abandoned comment block into
// the paragraphs they form without it. Blank lines separate paragraphs, and
// the first run continues the paragraph the block interrupted while that
// paragraph is still a sibling.
func replaceWithParagraphs(node gast.Node, interrupted *gast.Paragraph, src []byte) {
	parent := node.Parent()
	if parent == nil {
		return
	}

	var para *gast.Paragraph
	if interrupted != nil && interrupted.Parent() == parent && interrupted.Lines().Len() > 0 {
		para = interrupted
		lines := para.Lines()
		last := lines.At(lines.Len() - 1)
		lines.Set(lines.Len()-1, withLineEnd(last, src))
	}
	blank := false
	flush := func() {
		if para == nil {
			return
		}
		lines := para.Lines()
		last := lines.At(lines.Len() - 1)
		lines.Set(lines.Len()-1, last.TrimRightSpace(src))
		if para.Parent() == nil {
			parent.InsertBefore(parent, node, para)
		}
		para = nil
	}

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if util.IsBlank(seg.Value(src)) {
			flush()
			blank = true
			continue
		}
		if para == nil {
			para = gast.NewParagraph()
			para.SetBlankPreviousLines(blank)
		}
		para.Lines().Append(seg.TrimLeftSpace(src))
		blank = false
	}
	flush()
	parent.RemoveChild(parent, node)
}

// withLineEnd extends a right-trimmed line back to its newline.
func withLineEnd(seg text.Segment, src []byte) text.Segment {
	if seg.Stop > 0 && src[seg.Stop-1] == '\n' {
		return seg
	}
	if i := bytes.IndexByte(src[seg.Stop:], '\n'); i >= 0 {
		return seg.WithStop(seg.Stop + i + 1)
	}
	return seg.WithStop(len(src))
}

// A line opening a comment block ends the paragraph before it; Open turns
// it down when no closing %% follows.
func (b *commentBlockParser) CanInterruptParagraph() bool { return true }

func (b *commentBlockParser) CanAcceptIndentedLine() bool { return false }

func (d *commentBlockData) finish(res *scan.Result, ext build.Extension) {
	d.done = true
	if n, ok := build.Build(res, ext).(*ast.CommentBlock); ok {
		d.value = n.Value
	}
}
