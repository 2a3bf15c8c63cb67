// Package search turns the UI's stream of query text into at most one
// credential retrieval at a time, gated on association state.
package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/keysearch/internal/association"
	"github.com/atinyakov/keysearch/internal/models"
	"github.com/atinyakov/keysearch/internal/protocol"
)

// DebounceInterval is the quiet period after the last keystroke before
// a retrieval is dispatched.
const DebounceInterval = 250 * time.Millisecond

// Orchestrator coordinates debounced retrievals against the credential
// server and exposes the result state the UI renders from.
//
// Scheduling: every query update stops the pending timer and arms a
// new one, so only the last settled text is dispatched. Stale-response
// policy: each dispatched retrieval additionally carries a sequence
// number and a completion that is no longer the newest is discarded.
// The timer only collapses scheduled calls, the counter covers
// in-flight ones, so a slow early call can never overwrite the results
// of a later query.
//
// Rejected-key policy: when the server reports a stored key as invalid
// the orchestrator clears it from the store, so the next user-approved
// handshake starts clean instead of failing repeatedly against a
// known-bad secret.
type Orchestrator struct {
	transport association.Transport
	assoc     *association.Manager
	log       *zap.Logger
	interval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	timer         *time.Timer
	query         string
	seq           uint64
	results       []models.Entry
	loading       bool
	assocRequired bool
	lastErr       error
	notify        func()
	closed        bool
}

// NewOrchestrator constructs an Orchestrator. transport is used for
// get-logins calls; handshake calls go through assoc.
func NewOrchestrator(transport association.Transport, assoc *association.Manager, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		transport: transport,
		assoc:     assoc,
		log:       log,
		interval:  DebounceInterval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetDebounce overrides the default quiet period.
func (o *Orchestrator) SetDebounce(d time.Duration) {
	o.mu.Lock()
	o.interval = d
	o.mu.Unlock()
}

// SetNotify registers a callback invoked after every state change so
// the UI can re-render.
func (o *Orchestrator) SetNotify(fn func()) {
	o.mu.Lock()
	o.notify = fn
	o.mu.Unlock()
}

// OnQueryChange records the latest query text and (re)schedules a
// retrieval after the quiet period. Rapid updates reset the timer
// rather than firing on a cadence.
func (o *Orchestrator) OnQueryChange(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.query = text
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.interval, o.dispatch)
}

// CurrentResults returns the most recent result list. It is empty
// whenever the last retrieval failed or association is required; a
// failed search never leaves stale results displayed as current.
func (o *Orchestrator) CurrentResults() []models.Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.Entry, len(o.results))
	copy(out, o.results)
	return out
}

// IsLoading reports whether a retrieval is in flight.
func (o *Orchestrator) IsLoading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// AssociationRequired reports whether the last retrieval was blocked
// on a missing or rejected association. The UI prompts the user to
// approve a new handshake; the orchestrator never associates on its
// own.
func (o *Orchestrator) AssociationRequired() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.assocRequired
}

// Err returns the error carried by the last completed retrieval, nil
// when it succeeded. The message is stable and suitable for a
// notification.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// RequestAssociation runs the associate handshake. It is invoked only
// on explicit user action, to avoid spamming the password manager
// with approval prompts.
func (o *Orchestrator) RequestAssociation(ctx context.Context) error {
	err := o.assoc.Associate(ctx)

	o.mu.Lock()
	if err == nil {
		o.assocRequired = false
	}
	o.lastErr = err
	o.mu.Unlock()
	o.emit()
	return err
}

// Close tears the orchestrator down: the pending timer is stopped and
// the base context cancelled, so no scheduled retrieval fires
// afterwards.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()
	o.cancel()
}

// dispatch runs in the timer's goroutine when the quiet period elapses.
func (o *Orchestrator) dispatch() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.seq++
	seq := o.seq
	query := o.query
	o.loading = true
	o.mu.Unlock()
	o.emit()

	results, assocRequired, err := o.retrieve(o.ctx, query)

	o.mu.Lock()
	if o.closed || seq != o.seq {
		// A newer retrieval was dispatched while this one was in
		// flight; only the newest outcome counts.
		o.mu.Unlock()
		return
	}
	o.loading = false
	o.results = results
	o.assocRequired = assocRequired
	o.lastErr = err
	o.mu.Unlock()

	if err != nil {
		o.log.Warn("search failed", zap.Error(err))
	}
	o.emit()
}

// retrieve runs one gated retrieval. Any failure returns an empty
// result list.
func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]models.Entry, bool, error) {
	if err := o.assoc.Ensure(ctx); err != nil {
		var assocErr *association.Error
		if errors.As(err, &assocErr) {
			if assocErr.Reason == association.ReasonInvalid {
				if clearErr := o.assoc.Forget(ctx); clearErr != nil {
					o.log.Error("failed to clear rejected key", zap.Error(clearErr))
				}
			}
			return nil, true, nil
		}
		return nil, false, err
	}

	key, err := o.assoc.Key(ctx)
	if err != nil {
		return nil, false, err
	}

	resp, err := o.transport.Send(ctx, protocol.GetLogins(key, query))
	if err != nil {
		return nil, false, err
	}
	if !resp.Success() {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = "server reported failure"
		}
		return nil, false, &protocol.ProtocolError{Message: msg}
	}

	raws := resp.Entries()
	entries := make([]models.Entry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, models.Normalize(raw))
	}
	o.log.Debug("search completed",
		zap.String("query", query),
		zap.Int("entries", len(entries)),
	)
	return entries, false, nil
}

func (o *Orchestrator) emit() {
	o.mu.Lock()
	fn := o.notify
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}
