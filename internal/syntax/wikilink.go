package syntax

import "github.com/starford/vaultmark/internal/scan"

type wikilinkState uint8

const (
	wikilinkStart wikilinkState = iota
	wikilinkOpenFirst
	wikilinkOpenSecond
	wikilinkPathStart
	wikilinkPath
	wikilinkPathEscape
	wikilinkHeadingMarker
	wikilinkHeadingStart
	wikilinkHeading
	wikilinkHeadingEscape
	wikilinkAliasMarker
	wikilinkAliasStart
	wikilinkAlias
	wikilinkCloseFirst
	wikilinkCloseSecond
)

// Wikilink recognizes [[path#heading|alias]] and the embed form ![[...]].
//
// Inside path and heading a backslash makes the next character literal,
// except that \| still separates the alias; the builder drops the dangling
// backslash in that case.
type Wikilink struct {
	state      wikilinkState
	hasPath    bool
	hasHeading bool
	hasAlias   bool
}

// NewWikilink returns a recognizer positioned before '!' or '['.
func NewWikilink() scan.Recognizer { return &Wikilink{} }

// Step implements scan.Recognizer.
func (w *Wikilink) Step(e *scan.Effects, c rune) scan.Action {
	switch w.state {
	case wikilinkStart:
		switch c {
		case '!':
			e.Enter(KindWikilink)
			e.Enter(KindWikilinkEmbedMarker)
			e.Consume()
			e.Exit(KindWikilinkEmbedMarker)
		case '[':
			e.Enter(KindWikilink)
		default:
			return scan.Reject
		}
		w.state = wikilinkOpenFirst

	case wikilinkOpenFirst:
		if c != '[' {
			return scan.Reject
		}
		e.Enter(KindWikilinkMarker)
		e.Consume()
		w.state = wikilinkOpenSecond

	case wikilinkOpenSecond:
		if c != '[' {
			return scan.Reject
		}
		e.Consume()
		e.Exit(KindWikilinkMarker)
		w.state = wikilinkPathStart

	case wikilinkPathStart:
		switch {
		case c == '#':
			w.state = wikilinkHeadingMarker
		case c == '|', c == ']', c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Enter(KindWikilinkPath)
			w.hasPath = true
			w.state = wikilinkPath
		}

	case wikilinkPath:
		switch {
		case c == '\\':
			e.Consume()
			w.state = wikilinkPathEscape
		case c == '#':
			e.Exit(KindWikilinkPath)
			w.state = wikilinkHeadingMarker
		case c == '|':
			e.Exit(KindWikilinkPath)
			w.state = wikilinkAliasMarker
		case c == ']':
			e.Exit(KindWikilinkPath)
			w.state = wikilinkCloseFirst
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Consume()
		}

	case wikilinkPathEscape:
		switch {
		case c == '|':
			e.Exit(KindWikilinkPath)
			w.state = wikilinkAliasMarker
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Consume()
			w.state = wikilinkPath
		}

	case wikilinkHeadingMarker:
		if c != '#' {
			return scan.Reject
		}
		e.Enter(KindWikilinkHeadingMarker)
		e.Consume()
		e.Exit(KindWikilinkHeadingMarker)
		w.state = wikilinkHeadingStart

	case wikilinkHeadingStart:
		switch {
		case c == '|', c == ']', c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Enter(KindWikilinkHeading)
			w.hasHeading = true
			w.state = wikilinkHeading
		}

	case wikilinkHeading:
		switch {
		case c == '\\':
			e.Consume()
			w.state = wikilinkHeadingEscape
		case c == '|':
			e.Exit(KindWikilinkHeading)
			w.state = wikilinkAliasMarker
		case c == ']':
			e.Exit(KindWikilinkHeading)
			w.state = wikilinkCloseFirst
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Consume()
		}

	case wikilinkHeadingEscape:
		switch {
		case c == '|':
			e.Exit(KindWikilinkHeading)
			w.state = wikilinkAliasMarker
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Consume()
			w.state = wikilinkHeading
		}

	case wikilinkAliasMarker:
		if c != '|' {
			return scan.Reject
		}
		e.Enter(KindWikilinkAliasMarker)
		e.Consume()
		e.Exit(KindWikilinkAliasMarker)
		w.state = wikilinkAliasStart

	case wikilinkAliasStart:
		switch {
		case c == ']':
			w.state = wikilinkCloseFirst
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Enter(KindWikilinkAlias)
			w.hasAlias = true
			w.state = wikilinkAlias
		}

	case wikilinkAlias:
		switch {
		case c == ']':
			e.Exit(KindWikilinkAlias)
			w.state = wikilinkCloseFirst
		case c == scan.EOF, scan.IsLineEnding(c):
			return scan.Reject
		default:
			e.Consume()
		}

	case wikilinkCloseFirst:
		if c != ']' || !(w.hasPath || w.hasHeading || w.hasAlias) {
			return scan.Reject
		}
		e.Enter(KindWikilinkMarker)
		e.Consume()
		w.state = wikilinkCloseSecond

	case wikilinkCloseSecond:
		if c != ']' {
			return scan.Reject
		}
		e.Consume()
		e.Exit(KindWikilinkMarker)
		e.Exit(KindWikilink)
		return scan.Accept
	}
	return scan.Continue
}
