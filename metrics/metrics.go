package metrics

import "sync"

// Event names counted by the signaling core.
const (
	EventJoin             = "join"
	EventJoinRejected     = "join_rejected"
	EventLeave            = "leave"
	EventSessionReplaced  = "session_replaced"
	EventRoomOpened       = "room_opened"
	EventRoomClosed       = "room_closed"
	EventMessageReceived  = "message_received"
	EventMessageMalformed = "message_malformed"
	EventDelivered        = "delivered"
	EventDroppedNoTarget  = "dropped_no_target"
	EventDroppedStale     = "dropped_stale"
)

// Metrics is a concurrency-safe counter registry. A nil *Metrics discards
// every update.
type Metrics struct {
	mu sync.Mutex
	m  map[string]uint64
}

func New() *Metrics {
	return &Metrics{
		m: make(map[string]uint64),
	}
}

func (m *Metrics) Inc(name string) {
	m.Add(name, 1)
}

func (m *Metrics) Add(name string, delta uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.m[name] += delta
	m.mu.Unlock()
}

func (m *Metrics) Get(name string) uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[name]
}

func (m *Metrics) Snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	if m == nil {
		return out
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.m {
		out[k] = v
	}
	return out
}
