package streamdeck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/robmorgan/glow/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signallingHandler struct {
	recordingHandler
	keyDown chan ActionEvent
}

func (h *signallingHandler) KeyDown(_ context.Context, ev ActionEvent) {
	h.keyDown <- ev
}

func testConfig(t *testing.T, serverURL string) config.PluginConfig {
	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return config.PluginConfig{
		Port:          port,
		PluginUUID:    "plugin-uuid",
		RegisterEvent: "registerPlugin",
	}
}

func TestClientRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan []byte, 4)
	sendClose := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// registration
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- msg

		keyDown := `{"action":"` + testAction + `","event":"keyDown","context":"ctx-9","payload":{"settings":{"value":30}}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(keyDown)); err != nil {
			return
		}

		for i := 0; i < 3; i++ {
			_, msg, err = conn.ReadMessage()
			if err != nil {
				return
			}
			received <- msg
		}

		<-sendClose
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	h := &signallingHandler{keyDown: make(chan ActionEvent, 1)}
	router := NewRouter()
	router.Handle(testAction, h)

	client := NewClient(testConfig(t, srv.URL), router)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, client.Connect(ctx))

	runErr := make(chan error, 1)
	go func() {
		runErr <- client.Run(ctx)
	}()

	assert.JSONEq(t, `{"event":"registerPlugin","uuid":"plugin-uuid"}`, string(<-received))

	ev := <-h.keyDown
	assert.Equal(t, "ctx-9", ev.Context)

	require.NoError(t, client.SetTitle("ctx-9", "30%"))
	require.NoError(t, client.SendToPropertyInspector(testAction, "ctx-9", map[string]string{"event": "getLights"}))
	require.NoError(t, client.LogMessage("hello"))

	assert.JSONEq(t, `{"event":"setTitle","context":"ctx-9","payload":{"title":"30%","target":0}}`, string(<-received))
	assert.JSONEq(t, `{"action":"`+testAction+`","event":"sendToPropertyInspector","context":"ctx-9","payload":{"event":"getLights"}}`, string(<-received))
	assert.JSONEq(t, `{"event":"logMessage","payload":{"message":"hello"}}`, string(<-received))

	close(sendClose)
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Run did not return after the server closed the connection")
	}
}

func TestClientRunStopsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig(t, srv.URL), NewRouter())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, client.Connect(ctx))

	runErr := make(chan error, 1)
	go func() {
		runErr <- client.Run(ctx)
	}()

	cancel()
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientSendBeforeConnect(t *testing.T) {
	t.Parallel()

	client := NewClient(config.PluginConfig{Port: 1}, NewRouter())
	assert.Error(t, client.SetTitle("ctx", "x"))
	assert.Error(t, client.Run(context.Background()))
	assert.NoError(t, client.Close())
}
