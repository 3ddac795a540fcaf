package entity

import (
	"errors"
	"strings"
)

var (
	// ErrAliasExists is returned when an alias is already taken by another link.
	ErrAliasExists = errors.New("alias in use")
	// ErrLinkNotFound is returned when a link with the given id or alias cannot be found.
	ErrLinkNotFound = errors.New("link not found")
	// ErrForbidden is returned when the caller does not own the link.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when an operation requires a session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAllocationExhausted is returned when no unique alias was found within the attempt limit.
	ErrAllocationExhausted = errors.New("alias allocation exhausted")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries one FieldError per invalid input field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(msgs, "; ")
}
