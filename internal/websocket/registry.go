package websocket

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Peer is a connection that can receive encoded frames.
type Peer interface {
	Send(data []byte) error
}

// BroadcastResult reports how a fanout went.
type BroadcastResult struct {
	Delivered int
	Skipped   int
	Bytes     int
}

// Registry maps conversations to the users currently joined to them.
// A user is in at most one room; rooms are removed as soon as they are empty.
// Every method holds the registry lock only for in-memory work.
type Registry struct {
	mu sync.RWMutex

	// conversation ID -> user ID -> peer
	rooms map[uint]map[uint]Peer

	// user ID -> conversation ID, the reverse index for single-room enforcement
	userRoom map[uint]uint
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[uint]map[uint]Peer),
		userRoom: make(map[uint]uint),
	}
}

// Join moves userID into conversationID bound to peer. When the user was in a
// different room it is removed from it first and that room is returned.
func (r *Registry) Join(conversationID, userID uint, peer Peer) (previous uint, moved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.userRoom[userID]; ok && current != conversationID {
		r.removeLocked(userID)
		previous, moved = current, true
	}

	room, ok := r.rooms[conversationID]
	if !ok {
		room = make(map[uint]Peer)
		r.rooms[conversationID] = room
	}
	room[userID] = peer
	r.userRoom[userID] = conversationID
	return previous, moved
}

// Leave removes userID from whichever room it occupies.
func (r *Registry) Leave(userID uint) (uint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(userID)
}

// LeaveClient is Leave restricted to the case where the room entry still
// belongs to peer, so a stale connection cannot evict a newer one.
func (r *Registry) LeaveClient(userID uint, peer Peer) (uint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversationID, ok := r.userRoom[userID]
	if !ok || r.rooms[conversationID][userID] != peer {
		return 0, false
	}
	return r.removeLocked(userID)
}

func (r *Registry) removeLocked(userID uint) (uint, bool) {
	conversationID, ok := r.userRoom[userID]
	if !ok {
		return 0, false
	}
	delete(r.userRoom, userID)

	if room, exists := r.rooms[conversationID]; exists {
		delete(room, userID)
		if len(room) == 0 {
			delete(r.rooms, conversationID)
		}
	}
	return conversationID, true
}

// Broadcast encodes evt once and queues it to every peer in the room except
// excludeUserID (0 excludes nobody). Peers that refuse the frame are skipped.
func (r *Registry) Broadcast(conversationID uint, evt *OutboundEvent, excludeUserID uint) (BroadcastResult, error) {
	data, err := evt.Encode()
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res := BroadcastResult{Bytes: len(data)}
	for userID, peer := range r.rooms[conversationID] {
		if excludeUserID != 0 && userID == excludeUserID {
			continue
		}
		if err := peer.Send(data); err != nil {
			res.Skipped++
			continue
		}
		res.Delivered++
	}
	return res, nil
}

// MembersOf returns the sorted user IDs currently joined to conversationID.
func (r *Registry) MembersOf(conversationID uint) []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := lo.Keys(r.rooms[conversationID])
	slices.Sort(members)
	return members
}

// RoomOf reports the room userID is currently joined to.
func (r *Registry) RoomOf(userID uint) (uint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conversationID, ok := r.userRoom[userID]
	return conversationID, ok
}

// Rooms returns a snapshot of active rooms and their member counts.
func (r *Registry) Rooms() map[uint]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapValues(r.rooms, func(room map[uint]Peer, _ uint) int {
		return len(room)
	})
}
