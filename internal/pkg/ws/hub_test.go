package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_IsOnline_NoConnections(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.IsOnline(123))
}

// 用户不在线时发送不报错，消息直接丢弃
func TestHub_SendToUser_UserNotOnline(t *testing.T) {
	hub := NewHub()

	msg := &Message{
		Type: "result",
		Data: map[string]string{"key": "value"},
	}

	err := hub.SendToUser(123, msg)
	assert.NoError(t, err)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c1 := &Client{UserID: 100}
	c2 := &Client{UserID: 100}

	hub.Register(c1)
	hub.Register(c2)
	assert.True(t, hub.IsOnline(100))
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.Unregister(c1)
	assert.True(t, hub.IsOnline(100))
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.Unregister(c2)
	assert.False(t, hub.IsOnline(100))
	assert.Equal(t, 0, hub.ConnectionCount())
}

// 同一用户的所有连接都收到消息
func TestHub_SendToUser_RealWebSocket(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}

		client := &Client{
			UserID: 100,
			Conn:   conn,
		}
		hub.Register(client)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// 等注册完成
	time.Sleep(50 * time.Millisecond)
	require.True(t, hub.IsOnline(100))

	msg := &Message{
		Type:    "result",
		Message: "Analysis completed",
		Data:    map[string]interface{}{"result": "done"},
	}
	require.NoError(t, hub.SendToUser(100, msg))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "result", got.Type)
	assert.Equal(t, "Analysis completed", got.Message)
}

// type 与 message/data 的序列化口径固定，前端按这个契约解析
func TestMessage_JSON(t *testing.T) {
	msg := &Message{
		Type:    "task_notification",
		Message: "Payment successful!",
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "task_notification", raw["type"])
	assert.Equal(t, "Payment successful!", raw["message"])

	// data 为空时省略
	_, hasData := raw["data"]
	assert.False(t, hasData)
}
