// Package models defines the domain types for nerdnotes.
package models

import "time"

// Canonical section headings of a new note, in document order.
const (
	SectionRawNotes   = "Raw Notes"
	SectionProcessing = "Processing"
	SectionConnecting = "Connecting"
	SectionSummary    = "Summary"
	SectionReflection = "Reflection"
)

// CanonicalSections lists the sections every new note starts with.
var CanonicalSections = []string{
	SectionRawNotes,
	SectionProcessing,
	SectionConnecting,
	SectionSummary,
	SectionReflection,
}

// Extension is the file extension of note files.
const Extension = ".md"

// TimestampLayout encodes a note's creation time in its filename and front
// matter with second resolution.
const TimestampLayout = "20060102150405"

// Note represents a parsed Markdown note file.
type Note struct {
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Date     string    `json:"date"`
	Tags     []string  `json:"tags"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created,omitempty"`
}

// NoteRef is one entry of a directory listing together with its ephemeral
// 1-based display index.
type NoteRef struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

// HasTags reports whether the note carries every tag in required.
func (n *Note) HasTags(required []string) bool {
	set := make(map[string]struct{}, len(n.Tags))
	for _, t := range n.Tags {
		set[t] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
