// Package storage gives the note store access to a documents directory:
// the sink notes are exported to and the source documents are imported from.
package storage

import "github.com/Lobco894/NotePad-new-master/internal/models"

// Sink receives exported note text.
type Sink interface {
	// WriteText stores content at dest. The sink decides what dest means.
	WriteText(dest, content string) error
}

// Provider is the documents directory as seen by import and export.
type Provider interface {
	Sink
	// List returns metadata for every importable file under dir (relative to the root).
	List(dir string) ([]models.Document, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
}
