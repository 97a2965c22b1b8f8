package mcpserver

const fence = "```"

// SyntaxGuide describes the Markdown dialect the parser understands, on top
// of CommonMark and GitHub Flavored Markdown.
const SyntaxGuide = `# vaultmark Markdown Dialect

## Wikilinks

` + fence + `markdown
[[Note]]                 link to a note by path or file name (no .md needed)
[[folder/Note#Heading]]  link to a heading inside a note
[[Note|shown text]]      link with an alias
[[#Heading]]             link to a heading in the current note
![[diagram.png]]         embed a note or file
![[image\|800]]          escaped pipe, e.g. inside tables
` + fence + `

A backslash escapes #, [ and ] inside the path or heading. Wikilinks may
not span lines and [[]] is not a link.

## Highlights

` + "`==text==`" + ` marks text as highlighted. The content may contain other
inline Markdown.

## Comments

` + "`%%hidden%%`" + ` hides text inline. A line starting with %% opens a comment
block that runs until a line ending with %%. Comments are removed from the
output; their content is never indexed.

## Tags

` + "`#tag`" + ` and ` + "`#nested/tag`" + ` after whitespace or at the start of a line.
Tags may contain letters, digits, -, _ and emoji; an all-digit tag such as
#123 is not a tag. Frontmatter ` + "`tags:`" + ` (list or comma separated string)
is merged with inline tags.

## Arrows

| Source | Output |
|---|---|
| -> | → |
| --> | ⇒ |
| => | ⇒ |
| ==> | ⇒ |
| <- | ← |
| <-- | ⇐ |
| <= | ⇐ |
| <== | ⇐ |

## Tasks

Any single character between the brackets makes a task:

` + fence + `markdown
- [ ] open
- [x] done
- [?] question
- [>] deferred
` + fence + `

The character is reported as the task's char; every character other than a
space counts as checked.
`
