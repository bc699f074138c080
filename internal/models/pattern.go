// Package models defines the domain types for the pattern library.
package models

import "time"

// Pattern represents one design-pattern document in the library.
type Pattern struct {
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Content   []byte    `json:"-"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatternMetadata is a lightweight representation returned by list operations.
type PatternMetadata struct {
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
