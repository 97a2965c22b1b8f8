package scan

import "unicode"

// EOF is returned by Effects.Current when the window is exhausted.
const EOF rune = -1

// IsLineEnding reports whether c is a line feed or carriage return.
func IsLineEnding(c rune) bool {
	return c == '\n' || c == '\r'
}

// IsWhitespace reports whether c is a space, tab, or line ending.
func IsWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || IsLineEnding(c)
}

// IsASCIIDigit reports whether c is in 0-9.
func IsASCIIDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// IsTagChar reports whether c may appear in a tag. Letters, marks, and emoji
// may appear anywhere; digits, '-', and '_' are accepted too, but a tag made
// only of digits is rejected by the recognizer.
func IsTagChar(c rune) bool {
	switch {
	case c == EOF:
		return false
	case IsASCIIDigit(c), c == '-', c == '_':
		return true
	case c < 0x80:
		return unicode.IsLetter(c)
	}
	return unicode.In(c, unicode.L, unicode.M) || IsEmoji(c)
}

// IsEmoji reports whether c is a pictographic emoji code point. ASCII keycap
// bases ('#', '*', digits) are deliberately excluded.
func IsEmoji(c rune) bool {
	if c < 0xA9 {
		return false
	}
	return unicode.Is(emoji, c)
}

var emoji = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00A9, Hi: 0x00AE, Stride: 5},
		{Lo: 0x203C, Hi: 0x2049, Stride: 13},
		{Lo: 0x2122, Hi: 0x2139, Stride: 23},
		{Lo: 0x2194, Hi: 0x2199, Stride: 1},
		{Lo: 0x21A9, Hi: 0x21AA, Stride: 1},
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x23CF, Hi: 0x23CF, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23F3, Stride: 1},
		{Lo: 0x23F8, Hi: 0x23FA, Stride: 1},
		{Lo: 0x24C2, Hi: 0x24C2, Stride: 1},
		{Lo: 0x25AA, Hi: 0x25AB, Stride: 1},
		{Lo: 0x25B6, Hi: 0x25C0, Stride: 10},
		{Lo: 0x25FB, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2B05, Hi: 0x2B07, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B55, Stride: 5},
		{Lo: 0x3030, Hi: 0x303D, Stride: 13},
		{Lo: 0x3297, Hi: 0x3299, Stride: 2},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
	},
}
