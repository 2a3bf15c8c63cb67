// Package association owns the handshake state machine that
// establishes and verifies the shared key with the credential server.
package association

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/keysearch/internal/keystore"
	"github.com/atinyakov/keysearch/internal/protocol"
)

// Transport issues protocol calls. *protocol.Client satisfies it;
// tests substitute a recording fake.
type Transport interface {
	Send(ctx context.Context, req protocol.Request) (*protocol.Response, error)
}

// Reason tags an association failure.
type Reason int

const (
	// ReasonMissing means no shared key is stored at all. Recovery is a
	// fresh, user-approved associate call.
	ReasonMissing Reason = iota
	// ReasonInvalid means a stored key was rejected by the server, for
	// example because the user removed the association inside the
	// password manager.
	ReasonInvalid
)

// Error is a tagged association failure. The tag is assigned at the
// point of failure and is never inferred from message text.
type Error struct {
	Reason Reason
}

func (e *Error) Error() string {
	if e.Reason == ReasonInvalid {
		return "association: stored key rejected by server"
	}
	return "association: no shared key stored"
}

// Manager drives the handshake on top of a transport and a key store.
// It tracks whether the stored key has been confirmed live this
// session. The manager never clears the store when a key is rejected;
// that policy belongs to the caller.
type Manager struct {
	transport Transport
	store     keystore.Store
	log       *zap.Logger

	mu       sync.Mutex
	verified bool
}

// NewManager constructs a Manager over the given transport and store.
func NewManager(transport Transport, store keystore.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{transport: transport, store: store, log: log}
}

// HasKey reports whether a shared key is stored. No network call is made.
func (m *Manager) HasKey(ctx context.Context) (bool, error) {
	_, ok, err := m.store.Get(ctx)
	return ok, err
}

// Associated reports whether the stored key has been confirmed live
// this session.
func (m *Manager) Associated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verified
}

// Key returns the stored shared key for authenticated requests, or a
// tagged ReasonMissing error when none is stored.
func (m *Manager) Key(ctx context.Context) (string, error) {
	key, ok, err := m.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &Error{Reason: ReasonMissing}
	}
	return key, nil
}

// Associate requests a fresh key from the server and stores it. When
// the reply carries no usable key the store is left unchanged and a
// *protocol.ProtocolError is returned.
func (m *Manager) Associate(ctx context.Context) error {
	resp, err := m.transport.Send(ctx, protocol.Associate())
	if err != nil {
		return err
	}
	if !resp.Success() {
		return &protocol.ProtocolError{Message: failureMessage(resp, "associate rejected by server")}
	}
	key, ok := resp.Key()
	if !ok {
		return &protocol.ProtocolError{Message: "associate response carried no key"}
	}
	if err := m.store.Set(ctx, key); err != nil {
		return err
	}
	m.setVerified(true)
	m.log.Info("association established")
	return nil
}

// TestAssociate verifies the stored key against the server. It fails
// with a tagged *Error: ReasonMissing without any network call when no
// key is stored, ReasonInvalid when the server rejects the key.
func (m *Manager) TestAssociate(ctx context.Context) error {
	key, ok, err := m.store.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Reason: ReasonMissing}
	}

	resp, err := m.transport.Send(ctx, protocol.TestAssociate(key))
	if err != nil {
		return err
	}
	if !resp.Success() {
		m.setVerified(false)
		m.log.Warn("stored key rejected by server")
		return &Error{Reason: ReasonInvalid}
	}
	m.setVerified(true)
	return nil
}

// Ensure makes the association usable: an already-verified key passes
// without a network call, a stored-but-unverified key is tested, and
// an absent key fails with ReasonMissing.
func (m *Manager) Ensure(ctx context.Context) error {
	if m.Associated() {
		return nil
	}
	return m.TestAssociate(ctx)
}

// Forget discards the stored key and the session verification state.
// Callers invoke it when their policy is to drop a rejected key.
func (m *Manager) Forget(ctx context.Context) error {
	m.setVerified(false)
	return m.store.Clear(ctx)
}

func (m *Manager) setVerified(v bool) {
	m.mu.Lock()
	m.verified = v
	m.mu.Unlock()
}

// failureMessage prefers the server's own error text over fallback.
func failureMessage(resp *protocol.Response, fallback string) string {
	if msg := resp.ErrorMessage(); msg != "" {
		return msg
	}
	return fallback
}
