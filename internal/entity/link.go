// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which represents a shortened URL, its owner
// and the identity of the caller acting on it.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Link represents a shortened URL.
type Link struct {
	ID           uuid.UUID // ID is the unique identifier of the link.
	OriginalURL  string    // OriginalURL is the full URL that the alias resolves to.
	Alias        string    // Alias is the short token used in the public path.
	Owner        Owner     // Owner is the identity the link was created by.
	Visits       int64     // Visits is the number of successful redirects.
	PreviewImage *string   // PreviewImage is an optional Open Graph image of the original page.
	CreatedAt    time.Time // CreatedAt is the timestamp when the link was created.
	UpdatedAt    time.Time // UpdatedAt is the timestamp when the link was last mutated.
}
