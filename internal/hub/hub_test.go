package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	a := make(Client, 1)
	b := make(Client, 1)
	h.Subscribe(7, a)
	h.Subscribe(7, b)
	req.Equal(2, h.NumSubscribers(7))

	h.Broadcast(7, Event{Type: EventPlayerJoined, Payload: map[string]uint{"user_id": 3}})

	for _, client := range []Client{a, b} {
		raw := <-client
		var evt Event
		req.NoError(json.Unmarshal(raw, &evt))
		req.Equal(EventPlayerJoined, evt.Type)
	}
}

func TestHub_BroadcastScopedToLobby(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	a := make(Client, 1)
	b := make(Client, 1)
	h.Subscribe(1, a)
	h.Subscribe(2, b)

	h.Broadcast(1, Event{Type: EventPlayerLeft})

	req.Len(a, 1)
	req.Empty(b)
}

func TestHub_UnsubscribeClosesClient(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	a := make(Client, 1)
	h.Subscribe(5, a)
	h.Unsubscribe(5, a)

	_, open := <-a
	req.False(open)
	req.Zero(h.NumSubscribers(5))

	// A second unsubscribe for the same client is a no-op, not a panic.
	h.Unsubscribe(5, a)
}

func TestHub_SlowClientDoesNotBlockBroadcast(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	slow := make(Client) // unbuffered, nobody reading
	fast := make(Client, 2)
	h.Subscribe(9, slow)
	h.Subscribe(9, fast)

	h.Broadcast(9, Event{Type: EventPhaseChanged})
	h.Broadcast(9, Event{Type: EventChatMessage})

	req.Len(fast, 2)
}
