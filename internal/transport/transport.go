package transport

import (
	"context"
	"errors"
	"sync"

	"mcpflow/internal/jsonrpc"
)

// ErrClosed is returned by Send and by any outstanding pending requests once
// the transport has been closed.
var ErrClosed = errors.New("transport: closed")

// Transport is the capability shared by the stdio and HTTP carriers: send an
// envelope and block for its matching response, and expose a lazy,
// multi-consumer stream of notifications pushed by the server.
type Transport interface {
	// Send delivers env and waits for the correlated response, the
	// context's deadline, or transport closure — whichever comes first.
	Send(ctx context.Context, env jsonrpc.Envelope) (jsonrpc.Envelope, error)

	// Notifications returns a channel of server-initiated envelopes with
	// no id. It is closed when the transport is closed. Multiple calls
	// return independent fan-out subscriptions; none replays past items.
	Notifications() <-chan jsonrpc.Envelope

	// Close releases the underlying resources (child process, HTTP
	// client, reader goroutine) and fails every pending Send with
	// ErrClosed.
	Close() error
}

// pendingTable correlates outstanding request ids to a one-shot completion
// channel. It is shared by transports that multiplex many in-flight
// requests over a single connection (stdio); the HTTP transport is
// one-shot per call and does not need it.
type pendingTable struct {
	mu      sync.Mutex
	waiters map[string]chan jsonrpc.Envelope
	closed  bool
}

func newPendingTable() *pendingTable {
	return &pendingTable{waiters: make(map[string]chan jsonrpc.Envelope)}
}

// register allocates a completion slot for id. The slot leaves the table
// when deliver completes it, when closeAll fails it, or when the caller
// gives up on it with forget(id).
func (p *pendingTable) register(id string) (chan jsonrpc.Envelope, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	ch := make(chan jsonrpc.Envelope, 1)
	p.waiters[id] = ch
	return ch, nil
}

// deliver completes the slot for id, if any is still outstanding.
func (p *pendingTable) deliver(id string, env jsonrpc.Envelope) {
	p.mu.Lock()
	ch, ok := p.waiters[id]
	if ok {
		delete(p.waiters, id)
	}
	p.mu.Unlock()
	if ok {
		ch <- env
	}
}

// forget removes id's slot without delivering anything, used when a
// request times out or is cancelled before a response arrives.
func (p *pendingTable) forget(id string) {
	p.mu.Lock()
	delete(p.waiters, id)
	p.mu.Unlock()
}

// closeAll fails every outstanding slot with ErrClosed and marks the table
// closed so that no further registrations succeed.
func (p *pendingTable) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.waiters {
		close(ch)
		delete(p.waiters, id)
	}
}

// len reports the number of outstanding entries; used by tests asserting
// that a timed-out Send leaves no entry behind.
func (p *pendingTable) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters)
}
