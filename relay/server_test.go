package relay

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorb/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	config := DefaultConfig()
	config.WebDir = ""
	s := NewServer(config)
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func postState(t *testing.T, s *Server, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/state", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestStateEndpoints(t *testing.T) {
	s := testServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/state", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got stateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, session.StateDisconnected, got.State)
	assert.Equal(t, 0, got.Orbs)

	resp = postState(t, s, `{"state":"Speaking"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, session.StateSpeaking, s.State())

	resp = postState(t, s, `{"state":"dancing"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, session.StateSpeaking, s.State())

	resp = postState(t, s, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNoCacheHeaders(t *testing.T) {
	s := testServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/state", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
	assert.Equal(t, "0", resp.Header.Get("X-Accel-Expires"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "max-age=0")
}

func TestWidgetScript(t *testing.T) {
	s := testServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "http://orb.example.com/widget.js", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	script := string(body)

	assert.Contains(t, script, `var name = "voice-orb";`)
	assert.Contains(t, script, `var appURL = "http://orb.example.com/";`)
	assert.Contains(t, script, "customElements.get(name)")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s := testServer(t)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/ws/state", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestWebSocketReceivesStates(t *testing.T) {
	s := testServer(t)
	require.NoError(t, s.SetState(session.StateListening))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go s.Serve(ln)

	url := "ws://" + ln.Addr().String() + "/ws/state"
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		return err == nil
	}, time.Second*5, time.Millisecond*20)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second * 5))

	var msg session.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, session.StateListening, msg.State)

	require.NoError(t, s.SetState(session.StateThinking))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, session.StateThinking, msg.State)

	assert.Equal(t, 1, s.Hub().ClientCount())
}

func TestConcurrentSetStateLastBroadcastMatchesStored(t *testing.T) {
	s := testServer(t)

	const posts = 32

	client := NewClient(posts * 2)
	require.True(t, s.Hub().Register(context.Background(), client))
	require.Eventually(t, func() bool { return s.Hub().ClientCount() == 1 }, time.Second, time.Millisecond)

	states := []session.State{
		session.StateListening,
		session.StateThinking,
		session.StateSpeaking,
		session.StateDisconnected,
	}

	var wg sync.WaitGroup
	for i := range posts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SetState(states[i%len(states)]))
		}()
	}
	wg.Wait()

	var last session.Message
	for range posts {
		data, ok := recv(t, client)
		require.True(t, ok)
		require.NoError(t, json.Unmarshal(data, &last))
	}

	assert.Equal(t, s.State(), last.State)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/state", nil), -1)
	require.NoError(t, err)
	var got stateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, last.State, got.State)
}
