package websocket

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPeer collects frames and can refuse them.
type recordingPeer struct {
	mu     sync.Mutex
	frames [][]byte
	refuse bool
}

func (p *recordingPeer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refuse {
		return errors.New("refused")
	}
	p.frames = append(p.frames, data)
	return nil
}

func (p *recordingPeer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

func TestRegistryJoin(t *testing.T) {
	r := NewRegistry()
	a, b := &recordingPeer{}, &recordingPeer{}

	_, moved := r.Join(1, 10, a)
	assert.False(t, moved)
	_, moved = r.Join(1, 20, b)
	assert.False(t, moved)

	assert.Equal(t, []uint{10, 20}, r.MembersOf(1))
	assert.Equal(t, map[uint]int{1: 2}, r.Rooms())

	room, ok := r.RoomOf(10)
	require.True(t, ok)
	assert.Equal(t, uint(1), room)
}

func TestRegistrySingleRoomPerUser(t *testing.T) {
	r := NewRegistry()
	peer := &recordingPeer{}

	r.Join(1, 10, peer)
	r.Join(1, 20, &recordingPeer{})

	previous, moved := r.Join(2, 10, peer)
	require.True(t, moved)
	assert.Equal(t, uint(1), previous)

	assert.Equal(t, []uint{20}, r.MembersOf(1))
	assert.Equal(t, []uint{10}, r.MembersOf(2))

	// Rejoining the same room is not a move
	_, moved = r.Join(2, 10, peer)
	assert.False(t, moved)
	assert.Equal(t, []uint{10}, r.MembersOf(2))
}

func TestRegistryPrunesEmptyRooms(t *testing.T) {
	r := NewRegistry()
	r.Join(1, 10, &recordingPeer{})

	r.Join(2, 10, &recordingPeer{})
	_, exists := r.Rooms()[1]
	assert.False(t, exists, "room 1 should be removed once empty")

	room, ok := r.Leave(10)
	require.True(t, ok)
	assert.Equal(t, uint(2), room)
	assert.Empty(t, r.Rooms())

	_, ok = r.Leave(10)
	assert.False(t, ok)
	assert.Empty(t, r.MembersOf(2))
}

func TestRegistryLeaveClient(t *testing.T) {
	r := NewRegistry()
	first, second := &recordingPeer{}, &recordingPeer{}

	r.Join(1, 10, first)
	// A second device of the same user takes over the room entry
	r.Join(1, 10, second)

	_, ok := r.LeaveClient(10, first)
	assert.False(t, ok)
	assert.Equal(t, []uint{10}, r.MembersOf(1))

	room, ok := r.LeaveClient(10, second)
	require.True(t, ok)
	assert.Equal(t, uint(1), room)
	assert.Empty(t, r.Rooms())
}

func TestRegistryBroadcast(t *testing.T) {
	r := NewRegistry()
	a, b, c := &recordingPeer{}, &recordingPeer{}, &recordingPeer{refuse: true}
	outsider := &recordingPeer{}

	r.Join(1, 10, a)
	r.Join(1, 20, b)
	r.Join(1, 30, c)
	r.Join(2, 40, outsider)

	t.Run("ExcludesNobody", func(t *testing.T) {
		res, err := r.Broadcast(1, NewTypingEvent(1, 10, true), 0)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Delivered)
		assert.Equal(t, 1, res.Skipped)
		assert.Positive(t, res.Bytes)
		assert.Equal(t, 1, a.count())
		assert.Equal(t, 1, b.count())
		assert.Equal(t, 0, outsider.count())
	})

	t.Run("ExcludesUser", func(t *testing.T) {
		res, err := r.Broadcast(1, NewTypingEvent(1, 10, false), 10)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Delivered)
		assert.Equal(t, 1, a.count())
		assert.Equal(t, 2, b.count())
	})

	t.Run("EmptyRoom", func(t *testing.T) {
		res, err := r.Broadcast(99, NewTypingEvent(99, 10, false), 0)
		require.NoError(t, err)
		assert.Zero(t, res.Delivered)
		assert.Zero(t, res.Skipped)
	})
}

func TestRegistryConcurrentJoins(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			peer := &recordingPeer{}
			for room := uint(1); room <= 5; room++ {
				r.Join(room, userID, peer)
				r.Broadcast(room, NewPresenceEvent(room, userID, true), userID)
			}
		}(uint(i))
	}
	wg.Wait()

	// Every user ends in its last room, exactly once
	total := 0
	for room, count := range r.Rooms() {
		assert.Equal(t, uint(5), room)
		total += count
	}
	assert.Equal(t, 50, total)
	for i := 1; i <= 50; i++ {
		room, ok := r.RoomOf(uint(i))
		require.True(t, ok, fmt.Sprintf("user %d", i))
		assert.Equal(t, uint(5), room)
	}
}

type discardPeer struct{}

func (discardPeer) Send([]byte) error { return nil }

func BenchmarkRegistryBroadcast(b *testing.B) {
	r := NewRegistry()
	numClients := 100
	for i := 0; i < numClients; i++ {
		r.Join(100, uint(i+1), discardPeer{})
	}
	evt := NewTypingEvent(100, 1, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Broadcast(100, evt, 1)
	}
	b.ReportMetric(float64(numClients), "clients/op")
}
