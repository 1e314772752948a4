package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/client/realtime"
	"marketplace/internal/client/session"
	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/event"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readEnvelope(t *testing.T, conn *gorillaws.Conn) event.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope event.Envelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func TestWebSocket_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.echo)
	defer srv.Close()

	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocket_RelaysSendMessage(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.echo)
	defer srv.Close()

	seller, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv)+"?token="+s.token(t, "s1"), nil)
	require.NoError(t, err)
	defer seller.Close()
	require.Eventually(t, func() bool { return s.manager.IsOnline("s1") }, 2*time.Second, 10*time.Millisecond)

	rec := s.do(t, http.MethodGet, "/conversation/with/s1", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	conversationID := decode(t, rec)["conversationId"].(string)

	buyerSession, err := session.FromToken(s.token(t, "u1"))
	require.NoError(t, err)
	buyer := realtime.NewWebSocket(wsURL(srv), buyerSession)
	defer buyer.Close()
	require.NoError(t, buyer.Connect(context.Background()))

	payload := event.SendMessagePayload{
		Message: entity.ChatMessage{
			ID:   "m1",
			Text: "Tôi muốn mua: Xe đạp\nGiá: 150000VND",
			Time: "2024-03-09T08:30:15.123Z",
			User: entity.Profile{ID: "u1"},
		},
		ConversationID: conversationID,
		To:             "s1",
	}
	require.NoError(t, buyer.Emit(context.Background(), event.SendMessage, payload))

	envelope := readEnvelope(t, seller)
	assert.Equal(t, event.ChatMessage, envelope.Event)
	var got event.SendMessagePayload
	require.NoError(t, json.Unmarshal(envelope.Data, &got))
	assert.Equal(t, payload, got)
}

func TestWebSocket_UnknownEvent(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.echo)
	defer srv.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv)+"?token="+s.token(t, "u1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	frame, err := event.Encode("typing", nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, frame))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, event.Error, envelope.Event)
	var payload event.ErrorPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "Unknown event", payload.Message)
}

func TestWebSocket_RejectsSpoofedAuthor(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.echo)
	defer srv.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv)+"?token="+s.token(t, "u1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	frame, err := event.Encode(event.SendMessage, event.SendMessagePayload{
		Message:        entity.ChatMessage{ID: "m1", User: entity.Profile{ID: "someone-else"}},
		ConversationID: "c1",
		To:             "s1",
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, frame))

	envelope := readEnvelope(t, conn)
	assert.Equal(t, event.Error, envelope.Event)
	var payload event.ErrorPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "Message author does not match the connection", payload.Message)
}
