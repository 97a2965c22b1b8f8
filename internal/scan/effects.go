// Package scan provides the character-level machinery shared by the syntax
// recognizers: a windowed cursor over the source, the enter/exit span
// protocol, and checkpoint/restore for speculative sub-matches.
package scan

import "unicode/utf8"

// Kind labels a span. The string form is the wire name of the span.
type Kind string

// EventType distinguishes span openings from closings.
type EventType uint8

const (
	// Enter opens a span at Event.Offset.
	Enter EventType = iota
	// Exit closes the innermost open span at Event.Offset.
	Exit
)

// Event is one half of a span.
type Event struct {
	Type   EventType
	Kind   Kind
	Offset int
}

// window is a contiguous run of source bytes fed to the recognizer.
// base is the absolute offset of data[0].
type window struct {
	base int
	data []byte
}

func (w window) stop() int { return w.base + len(w.data) }

// Checkpoint captures everything a Restore needs to undo.
type Checkpoint struct {
	windows int
	pos     int
	events  int
	depth   int
}

// Effects is the cursor a recognizer reads from and the sink for the spans it
// emits. Offsets are absolute: a window fed at base b reports its first byte
// at offset b.
type Effects struct {
	windows []window
	pos     int
	prev    rune
	partial bool

	events []Event
	depth  int
	entry  Checkpoint
}

// NewEffects returns Effects reading data, whose first byte sits at absolute
// offset base. prev is the character before data, or EOF when data starts the
// input.
func NewEffects(data []byte, base int, prev rune) *Effects {
	e := &Effects{prev: prev}
	e.Feed(data, base, false)
	return e
}

// Feed appends a window and moves the cursor to its start. partial reports
// whether further windows may follow this one; recognizers that span lines
// suspend rather than fail at the end of a partial window.
func (e *Effects) Feed(data []byte, base int, partial bool) {
	e.windows = append(e.windows, window{base: base, data: data})
	e.pos = base
	e.partial = partial
}

// SetPartial changes whether the current window may be followed by another.
func (e *Effects) SetPartial(partial bool) { e.partial = partial }

// Partial reports whether more windows may follow the current one.
func (e *Effects) Partial() bool { return e.partial }

// Offset returns the absolute position of the cursor.
func (e *Effects) Offset() int { return e.pos }

// Start returns the absolute offset of the first fed window.
func (e *Effects) Start() int {
	if len(e.windows) == 0 {
		return 0
	}
	return e.windows[0].base
}

func (e *Effects) current() window { return e.windows[len(e.windows)-1] }

// Current returns the character under the cursor, or EOF at the end of the
// current window. Invalid UTF-8 decodes as utf8.RuneError one byte at a time.
func (e *Effects) Current() rune {
	c, _ := e.peek()
	return c
}

func (e *Effects) peek() (rune, int) {
	if len(e.windows) == 0 {
		return EOF, 0
	}
	w := e.current()
	if e.pos >= w.stop() {
		return EOF, 0
	}
	return utf8.DecodeRune(w.data[e.pos-w.base:])
}

// Previous returns the character before the cursor. Before the first window
// it is the prev value given to NewEffects.
func (e *Effects) Previous() rune {
	for i := len(e.windows) - 1; i >= 0; i-- {
		w := e.windows[i]
		if e.pos > w.base && e.pos <= w.stop() {
			c, _ := utf8.DecodeLastRune(w.data[:e.pos-w.base])
			return c
		}
		if i > 0 && e.pos == w.base {
			prior := e.windows[i-1]
			if len(prior.data) > 0 {
				c, _ := utf8.DecodeLastRune(prior.data)
				return c
			}
		}
	}
	return e.prev
}

// Consume advances past the current character. Consuming at EOF is a bug in
// the calling recognizer.
func (e *Effects) Consume() {
	c, n := e.peek()
	if c == EOF {
		panic("scan: consume at end of window")
	}
	e.pos += n
}

// Enter opens a span of kind k at the cursor.
func (e *Effects) Enter(k Kind) {
	e.events = append(e.events, Event{Type: Enter, Kind: k, Offset: e.pos})
	e.depth++
}

// Exit closes the innermost open span, which must be of kind k.
func (e *Effects) Exit(k Kind) {
	e.events = append(e.events, Event{Type: Exit, Kind: k, Offset: e.pos})
	e.depth--
}

// Depth returns the number of spans currently open.
func (e *Effects) Depth() int { return e.depth }

// Checkpoint records the current state for a later Restore.
func (e *Effects) Checkpoint() Checkpoint {
	return Checkpoint{
		windows: len(e.windows),
		pos:     e.pos,
		events:  len(e.events),
		depth:   e.depth,
	}
}

// Restore rewinds to cp, dropping every span event emitted since.
func (e *Effects) Restore(cp Checkpoint) {
	e.windows = e.windows[:cp.windows]
	e.pos = cp.pos
	e.events = e.events[:cp.events]
	e.depth = cp.depth
}

// Abort rewinds to the state at the most recent Run, discarding all spans,
// including ones still open.
func (e *Effects) Abort() { e.Restore(e.entry) }

// Consumed returns the number of bytes consumed in the current window since
// it was fed (or since Run, for the first window).
func (e *Effects) Consumed() int {
	return e.pos - e.current().base
}

// Result snapshots the emitted spans. It is meant to be called after a
// Matched status.
func (e *Effects) Result() *Result {
	events := make([]Event, len(e.events))
	copy(events, e.events)
	windows := make([]window, len(e.windows))
	copy(windows, e.windows)
	return &Result{Events: events, windows: windows, End: e.pos}
}
