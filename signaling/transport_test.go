package signaling

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/logging"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeTransport is an in-memory Transport. Frames pushed with deliver are
// returned by ReadMessage; frames written by the router are recorded.
type fakeTransport struct {
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu         sync.Mutex
	out        [][]byte
	failWrites bool
	closeCalls int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	select {
	case b := <-f.in:
		return websocket.TextMessage, b, nil
	case <-f.closed:
		return 0, nil, io.EOF
	}
}

func (f *fakeTransport) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errBrokenPipe
	}
	select {
	case <-f.closed:
		return net.ErrClosed
	default:
	}
	f.out = append(f.out, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) deliver(frame string) {
	f.in <- []byte(frame)
}

func (f *fakeTransport) setFailWrites(v bool) {
	f.mu.Lock()
	f.failWrites = v
	f.mu.Unlock()
}

func (f *fakeTransport) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.out))
	for i, b := range f.out {
		out[i] = string(b)
	}
	return out
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	f.out = nil
	f.mu.Unlock()
}

func (f *fakeTransport) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

type session struct {
	ft   *fakeTransport
	done chan struct{}
}

func (s *session) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not exit")
	}
}

func newTestRouter(opts Options) *Router {
	if opts.LoggerFactory == nil {
		opts.LoggerFactory = &logging.DefaultLoggerFactory{
			Writer:          io.Discard,
			DefaultLogLevel: logging.LogLevelDisabled,
		}
	}
	return NewRouter(NewRegistry(), opts)
}

// connect runs Serve for participantID and waits until it is registered.
func connect(t *testing.T, r *Router, roomID, participantID string) *session {
	t.Helper()
	return connectCtx(t, context.Background(), r, roomID, participantID)
}

func connectCtx(t *testing.T, ctx context.Context, r *Router, roomID, participantID string) *session {
	t.Helper()
	s := &session{ft: newFakeTransport(), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_ = r.Serve(ctx, roomID, participantID, s.ft)
	}()
	waitFor(t, func() bool {
		h, ok := r.Registry().Lookup(roomID, participantID)
		return ok && h.transport == s.ft
	})
	t.Cleanup(func() {
		_ = s.ft.Close()
		<-s.done
	})
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForFrames(t *testing.T, ft *fakeTransport, n int) []string {
	t.Helper()
	waitFor(t, func() bool { return len(ft.received()) >= n })
	return ft.received()
}

// gatedTransport holds every write until open is called, like a member on a
// congested link.
type gatedTransport struct {
	*fakeTransport
	gate     chan struct{}
	blocked  chan struct{}
	openOnce sync.Once
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{
		fakeTransport: newFakeTransport(),
		gate:          make(chan struct{}),
		blocked:       make(chan struct{}, 1),
	}
}

func (g *gatedTransport) WriteMessage(mt int, data []byte) error {
	select {
	case g.blocked <- struct{}{}:
	default:
	}
	<-g.gate
	return g.fakeTransport.WriteMessage(mt, data)
}

func (g *gatedTransport) open() {
	g.openOnce.Do(func() { close(g.gate) })
}

func (g *gatedTransport) waitBlocked(t *testing.T) {
	t.Helper()
	select {
	case <-g.blocked:
	case <-time.After(2 * time.Second):
		t.Fatalf("no write reached the gate")
	}
}

// connectGated is connect for a participant behind a gatedTransport.
func connectGated(t *testing.T, r *Router, roomID, participantID string) (*gatedTransport, *session) {
	t.Helper()
	gt := newGatedTransport()
	s := &session{ft: gt.fakeTransport, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_ = r.Serve(context.Background(), roomID, participantID, gt)
	}()
	waitFor(t, func() bool {
		h, ok := r.Registry().Lookup(roomID, participantID)
		return ok && h.transport == Transport(gt)
	})
	t.Cleanup(func() {
		gt.open()
		_ = gt.Close()
		<-s.done
	})
	return gt, s
}
