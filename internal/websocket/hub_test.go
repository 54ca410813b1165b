package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, testLogger())
}

func waitForSubscribers(t *testing.T, hub *Hub, teamID string, count int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.GetSubscriberCount(teamID) == count
	}, time.Second, 10*time.Millisecond)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestBroadcastReachesTeamSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	subscriber := newTestClient(hub)
	other := newTestClient(hub)
	hub.Register(subscriber)
	hub.Register(other)
	hub.Subscribe(subscriber, "t1")
	hub.Subscribe(other, "t2")
	waitForSubscribers(t, hub, "t1", 1)
	waitForSubscribers(t, hub, "t2", 1)

	hub.BroadcastFeedbackSubmitted("t1", map[string]string{"responseId": "r1"})

	msg := receive(t, subscriber)
	assert.Equal(t, MessageTypeFeedbackSubmitted, msg.Type)
	assert.Equal(t, "t1", msg.TeamID)

	select {
	case <-other.send:
		t.Fatal("client subscribed to another team received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastEventTypes(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	subscriber := newTestClient(hub)
	hub.Register(subscriber)
	hub.Subscribe(subscriber, "t1")
	waitForSubscribers(t, hub, "t1", 1)

	hub.BroadcastPracticeScheduled("t1", map[string]string{"practiceId": "pr1"})
	assert.Equal(t, MessageTypePracticeScheduled, receive(t, subscriber).Type)

	hub.BroadcastSummaryGenerated("t1", map[string]string{"practiceId": "pr1"})
	assert.Equal(t, MessageTypeSummaryGenerated, receive(t, subscriber).Type)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	subscriber := newTestClient(hub)
	hub.Register(subscriber)
	hub.Subscribe(subscriber, "t1")
	waitForSubscribers(t, hub, "t1", 1)
	hub.BroadcastFeedbackSubmitted("t1", nil)
	receive(t, subscriber)

	hub.Unsubscribe(subscriber, "t1")
	waitForSubscribers(t, hub, "t1", 0)

	hub.BroadcastFeedbackSubmitted("t1", nil)
	select {
	case <-subscriber.send:
		t.Fatal("unsubscribed client received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConnectionCounts(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "t1")

	require.Eventually(t, func() bool {
		return hub.GetTotalConnections() == 2 && hub.GetSubscriberCount("t1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(a)
	require.Eventually(t, func() bool {
		return hub.GetTotalConnections() == 1 && hub.GetSubscriberCount("t1") == 0
	}, time.Second, 10*time.Millisecond)
}
