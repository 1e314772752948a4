package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/event"
)

type stubRelay struct {
	payloads []event.SendMessagePayload
}

func (r *stubRelay) RelayMessage(ctx context.Context, senderID string, payload event.SendMessagePayload) (bool, error) {
	r.payloads = append(r.payloads, payload)
	return true, nil
}

func startManager(t *testing.T, relay Relay) (*Manager, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(relay)
	m.Start(ctx)
	t.Cleanup(cancel)
	return m, cancel
}

func TestManager_SendToUser(t *testing.T) {
	m, _ := startManager(t, nil)
	phone := NewClient("u1", nil)
	tablet := NewClient("u1", nil)

	require.True(t, m.Add(phone))
	require.True(t, m.Add(tablet))
	require.Eventually(t, func() bool {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		return len(m.clients["u1"]) == 2
	}, time.Second, 5*time.Millisecond)

	assert.True(t, m.SendToUser("u1", []byte("hi")))
	assert.Equal(t, []byte("hi"), <-phone.Send)
	assert.Equal(t, []byte("hi"), <-tablet.Send)

	assert.False(t, m.SendToUser("u2", []byte("hi")))
}

func TestManager_DropClosesSend(t *testing.T) {
	m, _ := startManager(t, nil)
	client := NewClient("u1", nil)
	require.True(t, m.Add(client))
	require.Eventually(t, func() bool { return m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	m.Drop(client)

	require.Eventually(t, func() bool { return !m.IsOnline("u1") }, time.Second, 5*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestManager_StoppedDoesNotBlock(t *testing.T) {
	m, cancel := startManager(t, nil)
	cancel()
	<-m.done

	assert.False(t, m.Add(NewClient("u1", nil)))
	m.Drop(NewClient("u1", nil))
}

func TestManager_FramesAfterShutdownAreDropped(t *testing.T) {
	m, cancel := startManager(t, &stubRelay{})
	client := NewClient("u1", nil)
	require.True(t, m.Add(client))
	require.Eventually(t, func() bool { return m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	cancel()
	<-m.done
	require.Eventually(t, func() bool { return !m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	assert.NotPanics(t, func() {
		m.HandleClientMessage(client, []byte("not json"))
		m.HandleClientMessage(client, []byte(`{"event":"typing"}`))
	})
	_, open := <-client.Send
	assert.False(t, open)
}

func TestManager_DroppedClientGetsNoErrorFrame(t *testing.T) {
	m, _ := startManager(t, nil)
	client := NewClient("u1", nil)
	require.True(t, m.Add(client))
	require.Eventually(t, func() bool { return m.IsOnline("u1") }, time.Second, 5*time.Millisecond)
	m.Drop(client)
	require.Eventually(t, func() bool { return !m.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	assert.NotPanics(t, func() { m.HandleClientMessage(client, []byte("not json")) })
}

func TestHandleClientMessage(t *testing.T) {
	relay := &stubRelay{}
	m := NewManager(relay)
	client := NewClient("u1", nil)

	frame, err := event.Encode(event.SendMessage, event.SendMessagePayload{ConversationID: "c9", To: "s1"})
	require.NoError(t, err)
	m.HandleClientMessage(client, frame)

	require.Len(t, relay.payloads, 1)
	assert.Equal(t, "c9", relay.payloads[0].ConversationID)

	m.HandleClientMessage(client, []byte("not json"))

	var envelope event.Envelope
	require.NoError(t, json.Unmarshal(<-client.Send, &envelope))
	assert.Equal(t, event.Error, envelope.Event)
}
