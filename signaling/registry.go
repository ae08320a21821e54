package signaling

import (
	"sort"
	"sync"
)

// room is the set of live handles for one meeting, keyed by participant id.
type room struct {
	id      string
	members map[string]*Handle
}

func (r *room) snapshot() []string {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Registry maps meeting ids to their rooms.
//
// A room exists only while it has at least one member: it is created by the
// first Join and removed by the Leave or Remove that empties it. All
// operations are serialised by a single mutex; expected room and participant
// counts are small.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join registers h under roomID, creating the room when absent. It returns
// the handle previously registered for the same participant (nil if none)
// and the membership after the join.
func (r *Registry) Join(roomID, participantID string, h *Handle) (*Handle, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &room{id: roomID, members: make(map[string]*Handle)}
		r.rooms[roomID] = rm
	}
	prev := rm.members[participantID]
	rm.members[participantID] = h
	if prev == h {
		prev = nil
	}
	return prev, rm.snapshot()
}

// Leave removes the participant regardless of which handle is registered and
// returns the remaining members. Unknown rooms and participants are a no-op.
func (r *Registry) Leave(roomID, participantID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return []string{}
	}
	delete(rm.members, participantID)
	return r.pruneLocked(rm)
}

// Remove deletes the entry for participantID only if it still points at h.
// removed reports whether this call performed the deletion, so concurrent
// cleanups of the same session agree on a single winner.
func (r *Registry) Remove(roomID, participantID string, h *Handle) (members []string, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return []string{}, false
	}
	cur, ok := rm.members[participantID]
	if !ok || cur != h {
		return rm.snapshot(), false
	}
	delete(rm.members, participantID)
	return r.pruneLocked(rm), true
}

func (r *Registry) pruneLocked(rm *room) []string {
	if len(rm.members) == 0 {
		delete(r.rooms, rm.id)
		return []string{}
	}
	return rm.snapshot()
}

// Members returns the sorted participant ids of roomID, empty if absent.
func (r *Registry) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return []string{}
	}
	return rm.snapshot()
}

// Lookup returns the handle registered for participantID in roomID.
func (r *Registry) Lookup(roomID, participantID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	h, ok := rm.members[participantID]
	return h, ok
}

// recipients returns the handles of roomID, skipping exclude when non-empty.
func (r *Registry) recipients(roomID, exclude string) map[string]*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make(map[string]*Handle, len(rm.members))
	for id, h := range rm.members {
		if exclude != "" && id == exclude {
			continue
		}
		out[id] = h
	}
	return out
}

// HasRoom reports whether roomID currently has any members.
func (r *Registry) HasRoom(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID]
	return ok
}

// Rooms returns the number of rooms with at least one member.
func (r *Registry) Rooms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Participants returns the number of registered handles across all rooms.
func (r *Registry) Participants() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rm := range r.rooms {
		n += len(rm.members)
	}
	return n
}

// Handles returns every registered handle.
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Handle
	for _, rm := range r.rooms {
		for _, h := range rm.members {
			out = append(out, h)
		}
	}
	return out
}
