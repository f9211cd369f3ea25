package link

import (
	"bytes"
	"errors"
	"sync"
)

// Loopback is an in-memory serial link: two connected endpoints where bytes
// written to one side become readable on the other. Reads never block; an
// endpoint with nothing buffered returns (0, nil), matching a timed-out
// serial read.
//
// Endpoints are safe for use from different goroutines (device loop on one
// side, test or host runner on the other).
type Loopback struct {
	a, b Endpoint
}

// NewLoopback creates a connected pair. Device is the side the controller
// drives; Host is the side a test or host process drives.
func NewLoopback() *Loopback {
	l := &Loopback{}
	l.a.peer = &l.b
	l.b.peer = &l.a
	return l
}

// Device returns the device-side endpoint.
func (l *Loopback) Device() *Endpoint { return &l.a }

// Host returns the host-side endpoint.
func (l *Loopback) Host() *Endpoint { return &l.b }

// Endpoint is one side of a Loopback.
type Endpoint struct {
	mu     sync.Mutex
	inbox  bytes.Buffer
	closed bool
	peer   *Endpoint
}

var errClosed = errors.New("loopback: endpoint closed")

// Read drains buffered bytes. Returns (0, nil) when nothing is available.
func (e *Endpoint) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, errClosed
	}
	if e.inbox.Len() == 0 {
		return 0, nil
	}
	return e.inbox.Read(p)
}

// Write delivers bytes to the peer endpoint's inbox.
func (e *Endpoint) Write(p []byte) (int, error) {
	peer := e.peer
	peer.mu.Lock()
	defer peer.mu.Unlock()
	if peer.closed {
		return 0, errClosed
	}
	return peer.inbox.Write(p)
}

// Close marks the endpoint closed; further reads and peer writes fail.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
