// Package build turns recognizer spans into goldmark nodes.
//
// Handlers are keyed by span kind and invoked in document order: enter
// handlers usually allocate a node and push it, exit handlers fill a field of
// the node on top of the stack from the span's source text and pop when the
// construct closes. Handlers never look at characters outside their span.
package build

import (
	gast "github.com/yuin/goldmark/ast"

	"github.com/starford/vaultmark/internal/scan"
)

// Handler reacts to one span.
type Handler func(c *Context, t scan.Token)

// Extension groups the handlers of one construct.
type Extension struct {
	Enter map[scan.Kind]Handler
	Exit  map[scan.Kind]Handler
}

// Context is the state of one build. It owns its node stack; nothing else
// reads or writes it.
type Context struct {
	res   *scan.Result
	stack []gast.Node
	root  gast.Node
}

// Slice returns the source text under t.
func (c *Context) Slice(t scan.Token) []byte {
	return c.res.Slice(t.Start, t.End)
}

// Copy returns a copy of the source text under t.
func (c *Context) Copy(t scan.Token) []byte {
	return append([]byte(nil), c.Slice(t)...)
}

// Push appends n to the node on top of the stack, or makes it the root, and
// then makes it the top.
func (c *Context) Push(n gast.Node) {
	if top := c.Top(); top != nil {
		top.AppendChild(top, n)
	} else if c.root == nil {
		c.root = n
	}
	c.stack = append(c.stack, n)
}

// Top returns the innermost open node, or nil.
func (c *Context) Top() gast.Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Pop closes the innermost open node.
func (c *Context) Pop() gast.Node {
	n := c.Top()
	if n != nil {
		c.stack = c.stack[:len(c.stack)-1]
	}
	return n
}

// Build replays res through ext and returns the resulting node. It returns
// nil if no handler allocated a node.
func Build(res *scan.Result, ext Extension) gast.Node {
	c := &Context{res: res}
	res.Walk(func(entering bool, t scan.Token) {
		handlers := ext.Exit
		if entering {
			handlers = ext.Enter
		}
		if h, ok := handlers[t.Kind]; ok {
			h(c, t)
		}
	})
	return c.root
}

func pop(c *Context, _ scan.Token) { c.Pop() }
