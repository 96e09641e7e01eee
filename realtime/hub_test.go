package realtime

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg Message
		assert.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("no message queued")
	}
	return Message{}
}

func TestPublishToUserTargetsOnlyThatUsersSessions(t *testing.T) {
	hub := NewHub()
	ana1 := NewClient(nil, 1)
	ana2 := NewClient(nil, 1)
	bruno := NewClient(nil, 2)
	hub.Register(ana1)
	hub.Register(ana2)
	hub.Register(bruno)

	hub.PublishToUser(1, Message{Event: EventReadStateUpdate, Data: "x"})

	assert.Equal(t, EventReadStateUpdate, recv(t, ana1).Event)
	assert.Equal(t, EventReadStateUpdate, recv(t, ana2).Event)
	assert.Empty(t, bruno.Send)
}

func TestPublishAllReachesEverySession(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil, 1)
	b := NewClient(nil, 2)
	hub.Register(a)
	hub.Register(b)

	hub.PublishAll(Message{Event: EventNotificationInsert})

	assert.Equal(t, EventNotificationInsert, recv(t, a).Event)
	assert.Equal(t, EventNotificationInsert, recv(t, b).Event)
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil, 1)
	hub.Register(c)
	hub.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)

	// Unregistering twice is harmless.
	hub.Unregister(c)
}

// A session that stops draining its queue is dropped instead of stalling the
// fan-out for everyone else.
func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	slow := NewClient(nil, 1)
	hub.Register(slow)

	for i := 0; i < cap(slow.Send)+1; i++ {
		hub.PublishToUser(1, Message{Event: EventNotificationInsert, Data: i})
	}

	// The queue holds a full buffer, then the channel is closed.
	received := 0
	for range slow.Send {
		received++
	}
	assert.Equal(t, cap(slow.Send), received)

	// The dropped client no longer receives publishes.
	hub.PublishToUser(1, Message{Event: EventNotificationInsert})
}
