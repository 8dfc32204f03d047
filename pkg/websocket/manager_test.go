package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedChangedReachesOnlineUsersOnly(t *testing.T) {
	m := NewManager()
	online := &Client{UserID: 1, Send: make(chan []byte, 1)}
	m.AddClient(online)

	m.FeedChanged("mutual_match", 1, 2)

	require.Len(t, online.Send, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(<-online.Send, &payload))
	assert.Equal(t, "feed_changed", payload["type"])
	assert.Equal(t, "mutual_match", payload["reason"])
	assert.False(t, m.IsOnline(2))
}

func TestReplacedClientIsNotRemovedByStaleConnection(t *testing.T) {
	m := NewManager()
	first := &Client{UserID: 1, Send: make(chan []byte, 1)}
	second := &Client{UserID: 1, Send: make(chan []byte, 1)}

	m.AddClient(first)
	m.AddClient(second)
	_, open := <-first.Send
	assert.False(t, open, "replaced connection is closed")

	m.RemoveClient(first)
	assert.True(t, m.IsOnline(1))
	assert.Equal(t, 1, m.OnlineCount())

	m.RemoveClient(second)
	assert.False(t, m.IsOnline(1))
}

func TestSendDropsWhenQueueFull(t *testing.T) {
	m := NewManager()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	m.AddClient(c)

	assert.True(t, m.SendToUser(1, []byte("a")))
	assert.False(t, m.SendToUser(1, []byte("b")))
	assert.False(t, m.SendToUser(2, []byte("c")))
}
