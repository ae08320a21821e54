package signaling

import (
	"encoding/json"

	"go-meet-signal/metrics"
)

// join registers h and announces the new participant to everyone else. A
// handle displaced by a rejoin under the same id is closed; its receive loop
// then finds the entry taken and skips the leave announcement.
func (r *Router) join(roomID, participantID string, h *Handle) {
	unlock := r.rooms.lock(roomID)
	prev, members := r.registry.Join(roomID, participantID, h)
	r.metrics.Inc(metrics.EventJoin)
	if len(members) == 1 {
		r.metrics.Inc(metrics.EventRoomOpened)
	}
	if prev != nil {
		r.metrics.Inc(metrics.EventSessionReplaced)
		r.log.Warnf("participant %s rejoined room %s, closing previous session", participantID, roomID)
		_ = prev.Close()
	}
	r.log.Infof("participant %s joined room %s (%d present)", participantID, roomID, len(members))
	d := r.announceJoined(roomID, participantID, members)
	unlock()

	r.evict(roomID, d.stale)
}

func (r *Router) announceJoined(roomID, participantID string, members []string) *delivery {
	return r.announce(roomID, PresenceEvent{
		Type:         TypeUserJoined,
		UserID:       participantID,
		Participants: members,
	}, participantID)
}

func (r *Router) announceLeft(roomID, participantID string, members []string) *delivery {
	return r.announce(roomID, PresenceEvent{
		Type:         TypeUserLeft,
		UserID:       participantID,
		Participants: members,
	}, "")
}

// announce broadcasts a membership change. The caller holds the room lock
// and passes the snapshot taken by the mutation that caused the event.
func (r *Router) announce(roomID string, ev PresenceEvent, exclude string) *delivery {
	d := &delivery{}
	payload, err := json.Marshal(ev)
	if err != nil {
		r.log.Errorf("encode %s: %v", ev.Type, err)
		return d
	}
	r.broadcast(roomID, payload, exclude, d)
	return d
}
