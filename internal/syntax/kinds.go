// Package syntax holds the recognizers for the note dialect's micro-syntaxes:
// wikilinks, highlights, comments, tags, and arrows. Each recognizer is a
// finite-state machine driven one character at a time by scan.Run; it emits
// spans only on success and leaves the cursor untouched on failure.
package syntax

import "github.com/starford/vaultmark/internal/scan"

// Span kinds emitted by the recognizers.
const (
	KindWikilink              scan.Kind = "wikilink"
	KindWikilinkEmbedMarker   scan.Kind = "wikilinkEmbedMarker"
	KindWikilinkMarker        scan.Kind = "wikilinkMarker"
	KindWikilinkPath          scan.Kind = "wikilinkPath"
	KindWikilinkHeadingMarker scan.Kind = "wikilinkHeadingMarker"
	KindWikilinkHeading       scan.Kind = "wikilinkHeading"
	KindWikilinkAliasMarker   scan.Kind = "wikilinkAliasMarker"
	KindWikilinkAlias         scan.Kind = "wikilinkAlias"

	KindHighlight        scan.Kind = "highlight"
	KindHighlightMarker  scan.Kind = "highlightMarker"
	KindHighlightContent scan.Kind = "highlightContent"

	KindComment        scan.Kind = "comment"
	KindCommentMarker  scan.Kind = "commentMarker"
	KindCommentContent scan.Kind = "commentContent"

	KindTag        scan.Kind = "tag"
	KindTagMarker  scan.Kind = "tagMarker"
	KindTagContent scan.Kind = "tagContent"

	KindArrow        scan.Kind = "arrow"
	KindArrowContent scan.Kind = "arrowContent"
)
