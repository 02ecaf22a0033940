package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/chatpdf/types"
)

type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialHub(t *testing.T, hub *WebSocketService) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f wsFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func waitClients(t *testing.T, hub *WebSocketService, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketService_InitialStateAndPing(t *testing.T) {
	chat := NewChatService(&fakeQA{}, &recordingNotifier{})
	chat.SelectFiles(types.UploadSet{pdf("a.pdf")})
	hub := NewWebSocketService(chat)

	conn := dialHub(t, hub)
	f := readFrame(t, conn)
	assert.Equal(t, types.TypeWebsocketState, f.Type)
	var state types.ChatState
	require.NoError(t, json.Unmarshal(f.Payload, &state))
	assert.Equal(t, []string{"a.pdf"}, state.Files)
	assert.False(t, state.Ready)

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: types.TypeWebsocketPing}))
	f = readFrame(t, conn)
	assert.Equal(t, types.TypeWebsocketPong, f.Type)
}

func TestWebSocketService_BroadcastsChanges(t *testing.T) {
	chat := NewChatService(&fakeQA{askResp: &types.AskResponse{Answer: "Paris"}})
	hub := NewWebSocketService(chat)
	chat.AddObserver(hub)
	chat.AddNotifier(hub)

	conn := dialHub(t, hub)
	readFrame(t, conn)
	waitClients(t, hub, 1)

	_, err := chat.UploadFiles(context.Background())
	require.NoError(t, err)

	var sawNotice, sawReady bool
	for i := 0; i < 3; i++ {
		f := readFrame(t, conn)
		switch f.Type {
		case types.TypeWebsocketNotice:
			var n types.Notice
			require.NoError(t, json.Unmarshal(f.Payload, &n))
			assert.Equal(t, UploadSuccessText, n.Text)
			sawNotice = true
		case types.TypeWebsocketState:
			var st types.ChatState
			require.NoError(t, json.Unmarshal(f.Payload, &st))
			if st.Ready {
				sawReady = true
			}
		}
	}
	assert.True(t, sawNotice)
	assert.True(t, sawReady)
}

func TestWebSocketService_DropsClosedClients(t *testing.T) {
	chat := NewChatService(&fakeQA{})
	hub := NewWebSocketService(chat)

	conn := dialHub(t, hub)
	readFrame(t, conn)
	waitClients(t, hub, 1)

	conn.Close()
	waitClients(t, hub, 0)
}
