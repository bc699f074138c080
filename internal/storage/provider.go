// Package storage defines the pattern library file-system abstraction.
package storage

import "github.com/ansdev/patternhub/internal/models"

// Provider is the interface for pattern file operations. Names are bare
// pattern identifiers without the .md extension (e.g. "singleton").
type Provider interface {
	// List returns metadata for every pattern document in the library.
	List() ([]models.PatternMetadata, error)
	// Read returns the raw bytes of the document for name.
	Read(name string) ([]byte, error)
	// Write atomically replaces the document for name.
	Write(name string, content []byte) error
}
