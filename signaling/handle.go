package signaling

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrHandleClosed is returned by Send once the handle has been closed.
var ErrHandleClosed = errors.New("signaling: handle closed")

// Transport is the duplex message channel of one participant.
// *websocket.Conn satisfies it.
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Handle wraps the transport of a single participant session.
//
// The transport allows at most one concurrent writer, so Send is serialised.
// Close is safe to call from the receive loop and from a failed sender at the
// same time; only the first call reaches the transport.
type Handle struct {
	participantID string
	transport     Transport
	writeWait     time.Duration

	mu        sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewHandle wraps t for participantID. A positive writeWait bounds each Send.
func NewHandle(participantID string, t Transport, writeWait time.Duration) *Handle {
	return &Handle{
		participantID: participantID,
		transport:     t,
		writeWait:     writeWait,
	}
}

// ParticipantID returns the id the handle was registered under.
func (h *Handle) ParticipantID() string {
	return h.participantID
}

// Send writes one text frame to the participant.
func (h *Handle) Send(payload []byte) error {
	if h.closed.Load() {
		return ErrHandleClosed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed.Load() {
		return ErrHandleClosed
	}
	if h.writeWait > 0 {
		_ = h.transport.SetWriteDeadline(time.Now().Add(h.writeWait))
	}
	return h.transport.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the transport once and returns that first result on every call.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		h.closeErr = h.transport.Close()
	})
	return h.closeErr
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}
