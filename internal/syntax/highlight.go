package syntax

import "github.com/starford/vaultmark/internal/scan"

type highlightState uint8

const (
	highlightStart highlightState = iota
	highlightOpenSecond
	highlightContent
	highlightContentConsume
	highlightCloseSecond
)

// Highlight recognizes ==text== on a single line. The content may not start
// with '=' or '>'. Every '=' in the content is probed as a closing marker;
// a failed probe is rolled back and the '=' kept as content.
type Highlight struct {
	state      highlightState
	hasContent bool
	probe      scan.Checkpoint
}

// NewHighlight returns a recognizer positioned before '='.
func NewHighlight() scan.Recognizer { return &Highlight{} }

// Step implements scan.Recognizer.
func (h *Highlight) Step(e *scan.Effects, c rune) scan.Action {
	switch h.state {
	case highlightStart:
		if c != '=' {
			return scan.Reject
		}
		e.Enter(KindHighlight)
		e.Enter(KindHighlightMarker)
		e.Consume()
		h.state = highlightOpenSecond

	case highlightOpenSecond:
		if c != '=' {
			return scan.Reject
		}
		e.Consume()
		e.Exit(KindHighlightMarker)
		e.Enter(KindHighlightContent)
		h.state = highlightContent

	case highlightContent:
		if c == scan.EOF || scan.IsLineEnding(c) {
			return scan.Reject
		}
		if !h.hasContent && (c == '=' || c == '>') {
			return scan.Reject
		}
		if c == '=' {
			h.probe = e.Checkpoint()
			e.Exit(KindHighlightContent)
			e.Enter(KindHighlightMarker)
			e.Consume()
			h.state = highlightCloseSecond
			return scan.Continue
		}
		e.Consume()
		h.hasContent = true

	case highlightCloseSecond:
		if c == '=' {
			e.Consume()
			e.Exit(KindHighlightMarker)
			e.Exit(KindHighlight)
			return scan.Accept
		}
		e.Restore(h.probe)
		h.state = highlightContentConsume

	case highlightContentConsume:
		if c == scan.EOF || scan.IsLineEnding(c) {
			return scan.Reject
		}
		e.Consume()
		h.state = highlightContent
	}
	return scan.Continue
}
