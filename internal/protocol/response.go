package protocol

import (
	"strings"

	"github.com/atinyakov/keysearch/internal/models"
)

// Response wraps a decoded server reply. Server implementations
// disagree on which fields they populate and on field casing, so
// values are looked up through aliases instead of a rigid struct.
type Response struct {
	fields map[string]any
}

func newResponse(fields map[string]any) *Response {
	return &Response{fields: fields}
}

// lookup returns the value of the first alias present in the reply.
func (r *Response) lookup(names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := r.fields[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Success reports the server's success flag. Replies that omit the
// flag entirely count as successful; failure must be flagged
// explicitly.
func (r *Response) Success() bool {
	v, ok := r.lookup("Success", "success")
	if !ok {
		return true
	}
	switch flag := v.(type) {
	case bool:
		return flag
	case string:
		return strings.EqualFold(flag, "true")
	}
	return false
}

// ErrorMessage returns the server-provided error text, or "" when the
// reply carries none.
func (r *Response) ErrorMessage() string {
	v, ok := r.lookup("Error", "error", "ErrorMessage", "errorMessage")
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Key returns the shared key carried by an associate reply, accepting
// either casing of the field. Empty values report absent.
func (r *Response) Key() (string, bool) {
	v, ok := r.lookup("Key", "key")
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Entries returns the raw credential records of a get-logins reply.
// Records are passed through untyped; shaping them is the normalizer's
// job.
func (r *Response) Entries() []models.Raw {
	v, ok := r.lookup("Entries", "entries")
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	entries := make([]models.Raw, 0, len(list))
	for _, item := range list {
		if raw, ok := item.(map[string]any); ok {
			entries = append(entries, models.Raw(raw))
		}
	}
	return entries
}
