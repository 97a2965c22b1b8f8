package syntax

import "github.com/starford/vaultmark/internal/scan"

type tagState uint8

const (
	tagStart tagState = iota
	tagContentStart
	tagContent
	tagAfterSlash
)

// Tag recognizes #tag and #nested/tag. A tag starts only at the beginning of
// input, after whitespace, or after another '#'. A '/' must be followed by a
// tag character, and all-digit tags such as #123 are rejected.
type Tag struct {
	state       tagState
	hasNonDigit bool
}

// NewTag returns a recognizer positioned before '#'.
func NewTag() scan.Recognizer { return &Tag{} }

// Step implements scan.Recognizer.
func (t *Tag) Step(e *scan.Effects, c rune) scan.Action {
	switch t.state {
	case tagStart:
		prev := e.Previous()
		if prev != scan.EOF && !scan.IsWhitespace(prev) && prev != '#' {
			return scan.Reject
		}
		if c != '#' {
			return scan.Reject
		}
		e.Enter(KindTag)
		e.Enter(KindTagMarker)
		e.Consume()
		e.Exit(KindTagMarker)
		t.state = tagContentStart

	case tagContentStart:
		if !scan.IsTagChar(c) {
			return scan.Reject
		}
		e.Enter(KindTagContent)
		t.take(e, c)
		t.state = tagContent

	case tagContent:
		switch {
		case c == '/':
			e.Consume()
			t.state = tagAfterSlash
		case scan.IsTagChar(c):
			t.take(e, c)
		default:
			if !t.hasNonDigit {
				return scan.Reject
			}
			e.Exit(KindTagContent)
			e.Exit(KindTag)
			return scan.Accept
		}

	case tagAfterSlash:
		if !scan.IsTagChar(c) {
			return scan.Reject
		}
		t.take(e, c)
		t.state = tagContent
	}
	return scan.Continue
}

func (t *Tag) take(e *scan.Effects, c rune) {
	if !scan.IsASCIIDigit(c) {
		t.hasNonDigit = true
	}
	e.Consume()
}
