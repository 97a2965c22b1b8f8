package obsidian

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/starford/vaultmark/internal/build"
	"github.com/starford/vaultmark/internal/scan"
)

// inlineParser runs one recognizer over the rest of the current line. The
// reader only advances on a match.
type inlineParser struct {
	trigger    []byte
	recognizer func() scan.Recognizer
	builder    build.Extension
}

func (p *inlineParser) Trigger() []byte { return p.trigger }

func (p *inlineParser) Parse(_ gast.Node, block text.Reader, _ parser.Context) gast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	e := scan.NewEffects(line, segment.Start, block.PrecendingCharacter())
	if scan.Run(p.recognizer(), e) != scan.Matched {
		return nil
	}
	res := e.Result()
	node := build.Build(res, p.builder)
	if node == nil {
		return nil
	}
	block.Advance(res.End - segment.Start)
	return node
}
