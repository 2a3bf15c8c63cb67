// Package models defines the canonical credential entry and the raw
// server record it is normalized from.
package models

// Entry is a credential entry in canonical form. Entries are produced
// fresh for every query and never mutated after construction.
type Entry struct {
	// UUID is the identifier of the entry inside the password database, if known.
	UUID string `json:"uuid,omitempty"`
	// Title is the display name of the entry. Never empty: entries
	// without any title-like field fall back to UntitledFallback.
	Title string `json:"title"`
	// Username is the login associated with the entry.
	Username string `json:"username,omitempty"`
	// Password is the secret associated with the entry.
	Password string `json:"password,omitempty"`
	// URL is the location the credentials apply to.
	URL string `json:"url,omitempty"`
	// Notes holds free-form user notes.
	Notes string `json:"notes,omitempty"`
	// Group is the display path of the folder containing the entry.
	Group string `json:"group,omitempty"`
}

// Raw is an untyped server record. Field names vary in casing and
// naming convention across server versions; Normalize reads a Raw once
// and the record is discarded afterwards.
type Raw map[string]any

// UntitledFallback is the title of entries that carry no title-like field.
const UntitledFallback = "Untitled"
