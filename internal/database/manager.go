// Package database owns the process-wide store connection: a Manager
// connects lazily on first use, shares the handle with every caller and
// lets a failed attempt be retried.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devevent/internal/domain"
)

// Pool and timeout settings applied by the connectors.
const (
	MaxPoolSize            = 10
	MinPoolSize            = 2
	ServerSelectionTimeout = 5 * time.Second
)

// Provider hands out a live connection handle.
type Provider[T any] interface {
	Get(ctx context.Context) (T, error)
}

// Static is a Provider over an already-open handle.
type Static[T any] struct {
	Conn T
}

func (s Static[T]) Get(context.Context) (T, error) {
	return s.Conn, nil
}

// ConnectFunc opens a connection for uri.
type ConnectFunc[T any] func(ctx context.Context, uri string) (T, error)

// CloseFunc releases a connection opened by a ConnectFunc.
type CloseFunc[T any] func(ctx context.Context, conn T) error

type attempt[T any] struct {
	done chan struct{}
	conn T
	err  error
}

// Manager lazily establishes one connection and memoizes it. Concurrent
// callers that arrive while an attempt is in flight join that attempt
// instead of starting their own.
type Manager[T any] struct {
	uri     string
	connect ConnectFunc[T]
	close   CloseFunc[T]

	mu        sync.Mutex
	conn      T
	connected bool
	pending   *attempt[T]
}

// NewManager returns a Manager that connects to uri on first use. close may be nil.
func NewManager[T any](uri string, connect ConnectFunc[T], close CloseFunc[T]) *Manager[T] {
	return &Manager[T]{uri: uri, connect: connect, close: close}
}

// Get returns the shared connection, connecting if needed. An empty
// connection string fails with ErrConfiguration and a failed attempt with
// ErrConnection; neither is cached, so the next call tries again.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	if m.connected {
		conn := m.conn
		m.mu.Unlock()
		return conn, nil
	}
	a := m.pending
	if a == nil {
		if m.uri == "" {
			m.mu.Unlock()
			var zero T
			return zero, fmt.Errorf("%w: connection string not defined", domain.ErrConfiguration)
		}
		a = &attempt[T]{done: make(chan struct{})}
		m.pending = a
		// The attempt outlives the caller that started it; joined callers
		// still need its result.
		go m.run(context.WithoutCancel(ctx), a)
	}
	m.mu.Unlock()

	select {
	case <-a.done:
		return a.conn, a.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (m *Manager[T]) run(ctx context.Context, a *attempt[T]) {
	conn, err := m.connect(ctx, m.uri)

	m.mu.Lock()
	if err != nil {
		a.err = fmt.Errorf("%w: %w", domain.ErrConnection, err)
	} else {
		a.conn = conn
		m.conn = conn
		m.connected = true
	}
	m.pending = nil
	m.mu.Unlock()
	close(a.done)
}

// Reset closes the cached connection, if any, so the next Get reconnects.
func (m *Manager[T]) Reset(ctx context.Context) error {
	m.mu.Lock()
	conn, connected := m.conn, m.connected
	var zero T
	m.conn, m.connected = zero, false
	m.mu.Unlock()

	if !connected || m.close == nil {
		return nil
	}
	return m.close(ctx, conn)
}
