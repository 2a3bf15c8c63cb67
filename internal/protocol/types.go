// Package protocol implements the wire client for the credential
// server: the three request kinds, JSON marshaling, and tolerant
// decoding of the server's inconsistently-cased responses.
package protocol

import "strings"

// RequestType selects one of the three operations the credential
// server understands.
type RequestType string

const (
	// RequestAssociate asks the server for a fresh shared key. The user
	// approves the request inside the password manager.
	RequestAssociate RequestType = "associate"
	// RequestTestAssociate presents a stored key so the server can
	// confirm the association is still live.
	RequestTestAssociate RequestType = "test-associate"
	// RequestGetLogins retrieves credential entries matching a search string.
	RequestGetLogins RequestType = "get-logins"
)

// Request is the JSON body of a single protocol call. Exactly one
// request kind is sent per call.
type Request struct {
	RequestType RequestType `json:"RequestType"`
	// Key is the shared secret. Required for test-associate and get-logins.
	Key string `json:"Key,omitempty"`
	// SearchString filters get-logins results. Omitted when the trimmed
	// query is empty, which asks the server for all entries.
	SearchString string `json:"SearchString,omitempty"`
}

// Associate builds an association request.
func Associate() Request {
	return Request{RequestType: RequestAssociate}
}

// TestAssociate builds a verification request for a stored key.
func TestAssociate(key string) Request {
	return Request{RequestType: RequestTestAssociate, Key: key}
}

// GetLogins builds a retrieval request. The search string is trimmed;
// empty means no filter.
func GetLogins(key, search string) Request {
	return Request{
		RequestType:  RequestGetLogins,
		Key:          key,
		SearchString: strings.TrimSpace(search),
	}
}
