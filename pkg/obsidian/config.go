package obsidian

import "log/slog"

// Config toggles each construct. A nil field means enabled, so a partially
// filled config file never switches syntax off by omission.
type Config struct {
	Wikilinks       *bool `yaml:"wikilinks" json:"wikilinks,omitempty"`
	Highlights      *bool `yaml:"highlights" json:"highlights,omitempty"`
	Comments        *bool `yaml:"comments" json:"comments,omitempty"`
	Tags            *bool `yaml:"tags" json:"tags,omitempty"`
	Arrows          *bool `yaml:"arrows" json:"arrows,omitempty"`
	CustomTaskChars *bool `yaml:"custom_task_chars" json:"customTaskChars,omitempty"`
}

func on(v *bool) bool { return v == nil || *v }

// Option configures an Extension.
type Option func(*Extension)

// WithConfig replaces the whole toggle set.
func WithConfig(c Config) Option {
	return func(x *Extension) { x.config = c }
}

// WithWikilinks toggles [[wikilinks]].
func WithWikilinks(v bool) Option {
	return func(x *Extension) { x.config.Wikilinks = &v }
}

// WithHighlights toggles ==highlights==.
func WithHighlights(v bool) Option {
	return func(x *Extension) { x.config.Highlights = &v }
}

// WithComments toggles %%comments%% and their removal.
func WithComments(v bool) Option {
	return func(x *Extension) { x.config.Comments = &v }
}

// WithTags toggles #tags.
func WithTags(v bool) Option {
	return func(x *Extension) { x.config.Tags = &v }
}

// WithArrows toggles -> style arrows.
func WithArrows(v bool) Option {
	return func(x *Extension) { x.config.Arrows = &v }
}

// WithCustomTaskChars toggles task characters other than 'x' and ' '.
func WithCustomTaskChars(v bool) Option {
	return func(x *Extension) { x.config.CustomTaskChars = &v }
}

// WithLogger sets the logger used when the extension is installed.
func WithLogger(l *slog.Logger) Option {
	return func(x *Extension) { x.logger = l }
}
