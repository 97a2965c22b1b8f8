package syntax

import "github.com/starford/vaultmark/internal/scan"

type commentState uint8

const (
	commentStart commentState = iota
	commentOpenSecond
	commentContent
	commentContentConsume
	commentCloseSecond
)

// Comment recognizes %%text%%.
//
// The text variant is confined to one line. The flow variant accepts line
// endings as content and suspends at the end of a partial window; the host
// then either feeds the next line or aborts the match when that line is a
// lazy continuation of an enclosing block. An unterminated comment never
// matches.
type Comment struct {
	flow  bool
	state commentState
	probe scan.Checkpoint
}

// NewTextComment returns the single-line variant.
func NewTextComment() scan.Recognizer { return &Comment{} }

// NewFlowComment returns the multi-line variant.
func NewFlowComment() scan.Recognizer { return &Comment{flow: true} }

// Step implements scan.Recognizer.
func (m *Comment) Step(e *scan.Effects, c rune) scan.Action {
	switch m.state {
	case commentStart:
		if c != '%' {
			return scan.Reject
		}
		e.Enter(KindComment)
		e.Enter(KindCommentMarker)
		e.Consume()
		m.state = commentOpenSecond

	case commentOpenSecond:
		if c != '%' {
			return scan.Reject
		}
		e.Consume()
		e.Exit(KindCommentMarker)
		e.Enter(KindCommentContent)
		m.state = commentContent

	case commentContent:
		switch {
		case c == scan.EOF:
			if m.flow && e.Partial() {
				return scan.Suspend
			}
			return scan.Reject
		case scan.IsLineEnding(c) && !m.flow:
			return scan.Reject
		case c == '%':
			m.probe = e.Checkpoint()
			e.Exit(KindCommentContent)
			e.Enter(KindCommentMarker)
			e.Consume()
			m.state = commentCloseSecond
			return scan.Continue
		}
		e.Consume()

	case commentCloseSecond:
		if c == '%' {
			e.Consume()
			e.Exit(KindCommentMarker)
			e.Exit(KindComment)
			return scan.Accept
		}
		e.Restore(m.probe)
		m.state = commentContentConsume

	case commentContentConsume:
		if c == scan.EOF {
			return scan.Reject
		}
		e.Consume()
		m.state = commentContent
	}
	return scan.Continue
}
