package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/chat"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")
	outsider := testutil.CreateUser(t, "outsider")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())
	testutil.Join(t, event, guest)
	messages := fmt.Sprintf("/api/events/%d/messages", event.ID)

	rec := doJSON(r, http.MethodPost, messages, tokenFor(t, outsider), map[string]string{"text": "Hej"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(r, http.MethodPost, messages, tokenFor(t, guest), map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPost, messages, tokenFor(t, guest), map[string]string{"text": strings.Repeat("a", chat.MaxMessageLength+1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPost, messages, tokenFor(t, guest), map[string]string{"text": "Cześć wszystkim"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	message := field(t, decode(t, rec), "message")
	assert.Equal(t, "Cześć wszystkim", message["text"])
	assert.Equal(t, "guest", field(t, message, "author")["username"])

	rec = doJSON(r, http.MethodGet, "/api/chats/unread", tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["total"])
	unread := list(t, body, "unread")
	require.Len(t, unread, 1)
	assert.Equal(t, float64(event.ID), unread[0].(map[string]interface{})["event_id"])

	rec = doJSON(r, http.MethodPost, messages+"/read", tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["marked"])

	rec = doJSON(r, http.MethodGet, "/api/chats/unread", tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["total"])

	rec = doJSON(r, http.MethodGet, messages, tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := list(t, decode(t, rec), "messages")
	require.Len(t, history, 1)
	assert.Equal(t, []interface{}{float64(host.ID)}, history[0].(map[string]interface{})["read_by"])

	rec = doJSON(r, http.MethodGet, messages, tokenFor(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(r, http.MethodPost, messages+"/read", tokenFor(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChatHistoryPaging(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())

	for i := 1; i <= 5; i++ {
		require.NoError(t, db.DB.Create(&models.ChatMessage{EventID: event.ID, AuthorID: host.ID, Text: fmt.Sprintf("msg %d", i)}).Error)
	}

	path := fmt.Sprintf("/api/events/%d/messages?limit=2", event.ID)

	rec := doJSON(r, http.MethodGet, path, tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	page := list(t, body, "messages")
	require.Len(t, page, 2)
	assert.Equal(t, "msg 4", page[0].(map[string]interface{})["text"])
	assert.Equal(t, "msg 5", page[1].(map[string]interface{})["text"])
	assert.Equal(t, true, body["has_more"])

	oldest := uint(page[0].(map[string]interface{})["id"].(float64))
	rec = doJSON(r, http.MethodGet, fmt.Sprintf("%s&before=%d", path, oldest), tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = list(t, decode(t, rec), "messages")
	require.Len(t, page, 2)
	assert.Equal(t, "msg 2", page[0].(map[string]interface{})["text"])

	rec = doJSON(r, http.MethodGet, path+"&before=abc", tokenFor(t, host), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func readWSFrame(t *testing.T, conn *websocket.Conn) chat.OutgoingFrame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame chat.OutgoingFrame
	require.NoError(t, conn.ReadJSON(&frame))

	return frame
}

func TestWebSocketChat(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())
	testutil.Join(t, event, guest)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws?token="

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"bogus", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+tokenFor(t, host), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	frame := readWSFrame(t, conn)
	assert.Equal(t, chat.FrameConnected, frame.Type)
	assert.Equal(t, host.ID, frame.UserID)

	require.NoError(t, conn.WriteJSON(chat.IncomingFrame{Type: chat.FrameJoin, EventID: event.ID}))
	frame = readWSFrame(t, conn)
	assert.Equal(t, chat.FrameJoined, frame.Type)
	assert.Equal(t, event.ID, frame.EventID)

	require.NoError(t, conn.WriteJSON(chat.IncomingFrame{Type: chat.FrameMessage, EventID: event.ID, Text: "Kto przynosi kości?"}))
	frame = readWSFrame(t, conn)
	require.Equal(t, chat.FrameMessage, frame.Type, frame.Error)
	require.NotNil(t, frame.Message)
	assert.Equal(t, "Kto przynosi kości?", frame.Message.Text)
	assert.Equal(t, "host", frame.Message.Author.Username)

	rec := doJSON(r, http.MethodPost, fmt.Sprintf("/api/events/%d/messages", event.ID), tokenFor(t, guest), map[string]string{"text": "Ja!"})
	require.Equal(t, http.StatusCreated, rec.Code)

	frame = readWSFrame(t, conn)
	require.Equal(t, chat.FrameMessage, frame.Type)
	assert.Equal(t, "Ja!", frame.Message.Text)
	assert.Equal(t, guest.ID, frame.Message.Author.ID)

	var stored int64
	require.NoError(t, db.DB.Model(&models.ChatMessage{}).Where("event_id = ?", event.ID).Count(&stored).Error)
	assert.Equal(t, int64(2), stored)
}

func dialChat(t *testing.T, server *httptest.Server, user models.User, eventID uint) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws?token=" + tokenFor(t, user)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Equal(t, chat.FrameConnected, readWSFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(chat.IncomingFrame{Type: chat.FrameJoin, EventID: eventID}))
	require.Equal(t, chat.FrameJoined, readWSFrame(t, conn).Type)

	return conn
}

func assertNoWSFrame(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))

	var frame chat.OutgoingFrame
	err := conn.ReadJSON(&frame)
	assert.Error(t, err, "unexpected %s frame", frame.Type)
}

func TestLeavingEventEndsChatDelivery(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())
	testutil.Join(t, event, guest)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	hostConn := dialChat(t, server, host, event.ID)
	guestConn := dialChat(t, server, guest, event.ID)
	assert.Equal(t, chat.FramePresence, readWSFrame(t, hostConn).Type)

	rec := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/events/%d/join", event.ID), tokenFor(t, guest), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	left := readWSFrame(t, guestConn)
	assert.Equal(t, chat.FrameLeft, left.Type)
	assert.Equal(t, event.ID, left.EventID)

	presence := readWSFrame(t, hostConn)
	assert.Equal(t, chat.FramePresence, presence.Type)
	assert.Equal(t, 1, presence.Online)

	rec = doJSON(r, http.MethodPost, fmt.Sprintf("/api/events/%d/messages", event.ID), tokenFor(t, host), map[string]string{"text": "Tajny plan"})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "Tajny plan", readWSFrame(t, hostConn).Message.Text)
	assertNoWSFrame(t, guestConn)
}

func TestDeletingEventClosesChatRoom(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())
	testutil.Join(t, event, guest)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	guestConn := dialChat(t, server, guest, event.ID)

	rec := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/events/%d", event.ID), tokenFor(t, host), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	left := readWSFrame(t, guestConn)
	assert.Equal(t, chat.FrameLeft, left.Type)
	assert.Equal(t, event.ID, left.EventID)
	assertNoWSFrame(t, guestConn)
}

func TestDeletingAccountDisconnectsChat(t *testing.T) {
	r := newTestRouter(t)
	host := testutil.CreateUser(t, "host")
	guest := testutil.CreateUser(t, "guest")
	event := testutil.CreateEvent(t, host, "Catan", testutil.Tomorrow())
	testutil.Join(t, event, guest)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	guestConn := dialChat(t, server, guest, event.ID)
	hostConn := dialChat(t, server, host, event.ID)
	assert.Equal(t, chat.FramePresence, readWSFrame(t, guestConn).Type)

	rec := doJSON(r, http.MethodDelete, "/api/auth/me", tokenFor(t, host), map[string]string{"password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, chat.FrameLeft, readWSFrame(t, guestConn).Type)

	// The host socket drains its last frames and is then closed.
	require.NoError(t, hostConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var err error
	for err == nil {
		_, _, err = hostConn.ReadMessage()
	}
	var closeErr *websocket.CloseError
	assert.ErrorAs(t, err, &closeErr)
}
