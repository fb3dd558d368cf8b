// Package storage defines the notes-directory file-system abstraction.
package storage

import "io/fs"

// Provider is the interface for note file operations. Relative paths resolve
// against the notes directory; absolute paths are used as given.
type Provider interface {
	// Root returns the absolute notes directory.
	Root() string
	// List returns the sorted names of the note files directly in the root.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Create writes a new file and fails if path already exists.
	Create(path string, content []byte) error
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}
