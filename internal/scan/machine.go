package scan

// Action is what a recognizer asks the driver to do after a Step.
type Action uint8

const (
	// Continue feeds the recognizer the character now under the cursor.
	// A Step that returns Continue must have consumed a character or
	// changed state.
	Continue Action = iota
	// Accept ends the match successfully. The character under the cursor
	// is not part of it.
	Accept
	// Reject ends the match unsuccessfully.
	Reject
	// Suspend pauses at the end of a partial window until the host feeds
	// the next one.
	Suspend
)

// Status is the outcome of driving a recognizer.
type Status uint8

const (
	Failed Status = iota
	Matched
	Suspended
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case Suspended:
		return "suspended"
	default:
		return "failed"
	}
}

// Recognizer is a finite-state scanner for one construct. Step is its single
// transition function: it inspects c (the character under the cursor, or
// EOF), updates its private state, and emits spans through e.
type Recognizer interface {
	Step(e *Effects, c rune) Action
}

// Run drives r from the cursor of e. On Failed, e is left exactly as it was
// before Run: no spans, same position.
func Run(r Recognizer, e *Effects) Status {
	e.entry = e.Checkpoint()
	return Resume(r, e)
}

// Resume continues a recognizer after Suspended, typically after Feed.
func Resume(r Recognizer, e *Effects) Status {
	for {
		switch r.Step(e, e.Current()) {
		case Accept:
			if e.depth != 0 {
				e.Abort()
				return Failed
			}
			return Matched
		case Reject:
			e.Abort()
			return Failed
		case Suspend:
			return Suspended
		}
	}
}

// Result is the span decomposition of a successful match.
type Result struct {
	Events  []Event
	windows []window
	// End is the absolute offset just past the match.
	End int
}

// Start returns the absolute offset where the match begins.
func (r *Result) Start() int {
	if len(r.Events) > 0 {
		return r.Events[0].Offset
	}
	return r.End
}

// Slice returns the source text between absolute offsets start and end,
// skipping anything between fed windows.
func (r *Result) Slice(start, end int) []byte {
	var out []byte
	pieces := 0
	for _, w := range r.windows {
		lo, hi := max(start, w.base), min(end, w.stop())
		if lo >= hi {
			continue
		}
		part := w.data[lo-w.base : hi-w.base]
		if pieces == 0 {
			out = part
		} else {
			if pieces == 1 {
				out = append([]byte(nil), out...)
			}
			out = append(out, part...)
		}
		pieces++
	}
	return out
}

// Token is a closed span.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Depth int
}

// Walk calls fn for each event in order with the full token it belongs to,
// so enter handlers already know where the span ends.
func (r *Result) Walk(fn func(entering bool, t Token)) {
	tokens := make([]Token, len(r.Events))
	var open []int
	for i, ev := range r.Events {
		switch ev.Type {
		case Enter:
			tokens[i] = Token{Kind: ev.Kind, Start: ev.Offset, Depth: len(open)}
			open = append(open, i)
		case Exit:
			if len(open) == 0 {
				continue
			}
			j := open[len(open)-1]
			open = open[:len(open)-1]
			tokens[j].End = ev.Offset
			tokens[i] = tokens[j]
		}
	}
	for i, ev := range r.Events {
		fn(ev.Type == Enter, tokens[i])
	}
}

// Tokens returns every span in enter order.
func (r *Result) Tokens() []Token {
	var out []Token
	r.Walk(func(entering bool, t Token) {
		if entering {
			out = append(out, t)
		}
	})
	return out
}
