package protocol

import "fmt"

// TransportError reports an HTTP call that did not complete with a
// success status. Calls are never retried automatically.
type TransportError struct {
	// Status is the HTTP status code, or 0 when the request never completed.
	Status int
	// Err is the underlying transport failure, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: server returned status %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be parsed as a
// JSON object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProtocolError reports a logical failure from the server, such as an
// associate reply that carries no key.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "protocol: " + e.Message
}
