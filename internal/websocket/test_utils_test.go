package websocket

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeConn implements Conn for tests that drive the hub without a socket.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	controls []int
	closed   bool
	incoming chan fakeFrame
}

type fakeFrame struct {
	messageType int
	data        []byte
}

var errFakeClosed = errors.New("connection closed")

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan fakeFrame, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	in, ok := <-f.incoming
	if !ok {
		return 0, nil, io.EOF
	}
	return in.messageType, in.data, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFakeClosed
	}
	if messageType == 1 {
		f.messages = append(f.messages, data)
	}
	return nil
}

func (f *fakeConn) WriteControl(messageType int, _ []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errFakeClosed
	}
	f.controls = append(f.controls, messageType)
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.incoming)
	}
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([][]byte, len(f.messages))
	copy(result, f.messages)
	return result
}

// newTestClient registers a client for userID without starting its pumps.
func newTestClient(t *testing.T, hub *Hub, userID uint) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	client := NewClient(hub, conn, userID)
	require.NoError(t, hub.Register(client))
	return client, conn
}

// drain returns every event queued for the client so far.
func drain(t *testing.T, c *Client) []*OutboundEvent {
	t.Helper()
	var events []*OutboundEvent
	for {
		select {
		case data := <-c.send:
			evt, err := DecodeOutbound(data)
			require.NoError(t, err)
			events = append(events, evt)
		default:
			return events
		}
	}
}

func frame(s string) []byte {
	return []byte(s)
}
