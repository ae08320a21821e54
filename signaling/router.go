package signaling

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/logging"

	"go-meet-signal/metrics"
)

const defaultWriteWait = 10 * time.Second

// Outcome is the result of handing one frame to one handle.
type Outcome int

const (
	Delivered Outcome = iota
	DroppedNoTarget
	DroppedStale
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case DroppedNoTarget:
		return "dropped_no_target"
	case DroppedStale:
		return "dropped_stale"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result counts the outcomes of one dispatch.
type Result struct {
	Delivered int
	Dropped   int
}

func (res *Result) add(o Outcome) {
	if o == Delivered {
		res.Delivered++
		return
	}
	res.Dropped++
}

type Options struct {
	// Directory validates meeting ids in Admit. Defaults to AcceptAnyMeeting.
	Directory     MeetingDirectory
	Metrics       *metrics.Metrics
	LoggerFactory logging.LoggerFactory
	WriteWait     time.Duration
}

// Router runs the receive loop of every participant connection and routes
// frames through the Registry.
//
// Membership changes of a room and their presence broadcasts run under that
// room's lock, so every member sees user_joined and user_left in the order
// the registry applied them.
type Router struct {
	registry  *Registry
	rooms     roomLocks
	directory MeetingDirectory
	metrics   *metrics.Metrics
	log       logging.LeveledLogger
	writeWait time.Duration
}

func NewRouter(registry *Registry, opts Options) *Router {
	if registry == nil {
		registry = NewRegistry()
	}
	if opts.Directory == nil {
		opts.Directory = AcceptAnyMeeting{}
	}
	if opts.LoggerFactory == nil {
		opts.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}
	return &Router{
		registry:  registry,
		directory: opts.Directory,
		metrics:   opts.Metrics,
		log:       opts.LoggerFactory.NewLogger("signaling"),
		writeWait: opts.WriteWait,
	}
}

func (r *Router) Registry() *Registry {
	return r.registry
}

// Admit checks roomID against the meeting directory before a connection is
// accepted.
func (r *Router) Admit(ctx context.Context, roomID string) error {
	ok, err := r.directory.Exists(ctx, roomID)
	if err != nil {
		return fmt.Errorf("signaling: check meeting %s: %w", roomID, err)
	}
	if !ok {
		r.metrics.Inc(metrics.EventJoinRejected)
		return ErrUnknownMeeting
	}
	return nil
}

// Serve owns the connection from accept to disconnect. It registers the
// participant, announces it, relays inbound frames in receive order, and
// cleans up when the transport fails or ctx is done.
func (r *Router) Serve(ctx context.Context, roomID, participantID string, t Transport) error {
	h := NewHandle(participantID, t, r.writeWait)
	stop := context.AfterFunc(ctx, func() { _ = h.Close() })
	defer stop()

	r.join(roomID, participantID, h)
	defer r.release(roomID, participantID, h, "disconnect")

	for {
		_, frame, err := t.ReadMessage()
		if err != nil {
			if !h.Closed() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				r.log.Debugf("room %s participant %s read: %v", roomID, participantID, err)
			}
			return ctx.Err()
		}

		r.metrics.Inc(metrics.EventMessageReceived)
		if _, err := r.Dispatch(roomID, participantID, frame); err != nil {
			r.metrics.Inc(metrics.EventMessageMalformed)
			r.log.Debugf("room %s participant %s: %v", roomID, participantID, err)
		}
	}
}

// Dispatch routes one inbound frame from senderID. Malformed frames return
// ErrMalformedMessage and are not delivered anywhere.
func (r *Router) Dispatch(roomID, senderID string, frame []byte) (Result, error) {
	msg, err := DecodeMessage(frame)
	if err != nil {
		return Result{}, err
	}

	var d delivery
	switch {
	case msg.Type.Directed():
		r.deliver(roomID, msg.Target, msg.Raw, &d)
	case msg.Type == TypeChat:
		r.broadcast(roomID, msg.Raw, "", &d)
	default:
		r.broadcast(roomID, msg.Raw, senderID, &d)
	}
	r.evict(roomID, d.stale)
	return d.Result, nil
}

// delivery collects the outcome of one fan-out. Handles whose write failed
// are evicted by the caller once the fan-out is over.
type delivery struct {
	Result
	stale []*Handle
}

func (r *Router) deliver(roomID, targetID string, payload []byte, d *delivery) {
	h, ok := r.registry.Lookup(roomID, targetID)
	if !ok {
		r.metrics.Inc(metrics.EventDroppedNoTarget)
		d.add(DroppedNoTarget)
		return
	}
	r.send(roomID, h, payload, d)
}

// broadcast sends payload to every member except exclude. A failing member
// does not stop delivery to the rest.
func (r *Router) broadcast(roomID string, payload []byte, exclude string, d *delivery) {
	for _, h := range r.registry.recipients(roomID, exclude) {
		r.send(roomID, h, payload, d)
	}
}

// send is the only write path. A failed write is never reported to the
// sender; the handle is queued for eviction instead.
func (r *Router) send(roomID string, h *Handle, payload []byte, d *delivery) {
	if err := h.Send(payload); err != nil {
		r.metrics.Inc(metrics.EventDroppedStale)
		r.log.Debugf("room %s participant %s send: %v", roomID, h.ParticipantID(), err)
		d.add(DroppedStale)
		d.stale = append(d.stale, h)
		return
	}
	r.metrics.Inc(metrics.EventDelivered)
	d.add(Delivered)
}

// evict treats every failed handle as disconnected.
func (r *Router) evict(roomID string, stale []*Handle) {
	for _, h := range stale {
		r.release(roomID, h.ParticipantID(), h, "send failed")
	}
}

// release removes h from the registry at most once, closes it, and tells the
// remaining members. Later calls for the same handle do nothing.
func (r *Router) release(roomID, participantID string, h *Handle, reason string) bool {
	unlock := r.rooms.lock(roomID)
	members, removed := r.registry.Remove(roomID, participantID, h)
	_ = h.Close()
	if !removed {
		unlock()
		return false
	}

	r.metrics.Inc(metrics.EventLeave)
	if len(members) == 0 {
		unlock()
		r.metrics.Inc(metrics.EventRoomClosed)
		r.log.Infof("room %s closed after %s left (%s)", roomID, participantID, reason)
		return true
	}
	r.log.Infof("participant %s left room %s (%s)", participantID, roomID, reason)
	d := r.announceLeft(roomID, participantID, members)
	unlock()

	r.evict(roomID, d.stale)
	return true
}

// Shutdown closes every live connection. Receive loops then run their own
// cleanup.
func (r *Router) Shutdown() {
	for _, h := range r.registry.Handles() {
		_ = h.Close()
	}
}
