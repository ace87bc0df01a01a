package testmodels

import "github.com/go-openapi/strfmt"

type Note struct {

	// Timestamp when the note was created.
	// Required: true
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt"`

	// Unique identifier for the note.
	// Required: true
	ID string `json:"Id"`

	// Body text of the note.
	Body string `json:"Body,omitempty"`

	// Title of the note.
	// Required: true
	Title *string `json:"Title"`

	// Tags attached to the note.
	Tags []string `json:"Tags,omitempty"`

	// Timestamp when the note was last updated.
	// Required: true
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt"`
}
