// Package models defines the domain types for vaultmark.
package models

import "time"

// Note is an indexed Markdown file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Title       string                 `json:"title,omitempty"`
	Checksum    string                 `json:"checksum"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Tags        []string               `json:"tags"`
	Links       []Link                 `json:"links"`
	Tasks       []Task                 `json:"tasks"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NoteMetadata is the lightweight form returned by storage listings.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link is a wikilink from Source to Target. Target is the path exactly as
// written in the link, without resolution against the vault.
type Link struct {
	Source   string `json:"source,omitempty"`
	Target   string `json:"target"`
	Heading  string `json:"heading,omitempty"`
	Alias    string `json:"alias,omitempty"`
	Embedded bool   `json:"embedded"`
}

// Task is a list item carrying a task character.
type Task struct {
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line"`
	Char    string `json:"char"`
	Checked bool   `json:"checked"`
	Text    string `json:"text"`
}

// TagCount is a tag and the number of notes carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
