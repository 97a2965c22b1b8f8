package ast

import (
	"unicode/utf8"

	gast "github.com/yuin/goldmark/ast"
)

// TaskChar returns the task marker character recorded on n.
func TaskChar(n gast.Node) (rune, bool) {
	v, ok := n.AttributeString(AttrTaskChar)
	if !ok {
		return 0, false
	}
	var b []byte
	switch v := v.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return 0, false
	}
	r, size := utf8.DecodeRune(b)
	if size == 0 {
		return 0, false
	}
	return r, true
}

// SetTaskChar records c as the task marker character of n.
func SetTaskChar(n gast.Node, c rune) {
	n.SetAttributeString(AttrTaskChar, []byte(string(c)))
}
