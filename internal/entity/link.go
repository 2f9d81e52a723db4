// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which maps a short alias to its original URL,
// the export artifacts and the error definitions shared between layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrAliasConflict is returned when attempting to create a link with an alias that already exists.
	ErrAliasConflict = errors.New("alias already exists")
	// ErrLinkNotFound is returned when a link with the specified alias cannot be found.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidLink is returned when a link is missing its original URL.
	ErrInvalidLink = errors.New("invalid link")
)

// Link represents a shortened URL.
type Link struct {
	ID          string    // ID is the unique identifier of the link, generated at creation.
	OriginalURL string    // OriginalURL is the destination address, stored as submitted.
	ShortURL    string    // ShortURL is the alias used for lookup and redirection.
	AccessCount int64     // AccessCount is the number of times the alias has been resolved.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was inserted.
}

// Export describes a published links report.
type Export struct {
	FileName  string
	PublicURL string
}

// Object is a blob handed to object storage.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Body         []byte
}
