package syntax

import "github.com/starford/vaultmark/internal/scan"

type arrowState uint8

const (
	arrowStart arrowState = iota
	arrowAfterFirst
	arrowAfterSecond
	arrowAfterLeft
	arrowLeftStroke
)

// Arrow recognizes ->, -->, =>, ==>, <-, <--, <= and <==. At most three
// characters are consumed.
type Arrow struct {
	state  arrowState
	stroke rune
}

// NewArrow returns a recognizer positioned before '-', '=' or '<'.
func NewArrow() scan.Recognizer { return &Arrow{} }

// Step implements scan.Recognizer.
func (a *Arrow) Step(e *scan.Effects, c rune) scan.Action {
	switch a.state {
	case arrowStart:
		switch c {
		case '-', '=':
			a.stroke = c
			a.state = arrowAfterFirst
		case '<':
			a.state = arrowAfterLeft
		default:
			return scan.Reject
		}
		e.Enter(KindArrow)
		e.Enter(KindArrowContent)
		e.Consume()

	case arrowAfterFirst:
		switch c {
		case '>':
			return a.close(e, true)
		case a.stroke:
			e.Consume()
			a.state = arrowAfterSecond
		default:
			return scan.Reject
		}

	case arrowAfterSecond:
		if c != '>' {
			return scan.Reject
		}
		return a.close(e, true)

	case arrowAfterLeft:
		if c != '-' && c != '=' {
			return scan.Reject
		}
		a.stroke = c
		e.Consume()
		a.state = arrowLeftStroke

	case arrowLeftStroke:
		return a.close(e, c == a.stroke)
	}
	return scan.Continue
}

func (a *Arrow) close(e *scan.Effects, consume bool) scan.Action {
	if consume {
		e.Consume()
	}
	e.Exit(KindArrowContent)
	e.Exit(KindArrow)
	return scan.Accept
}
