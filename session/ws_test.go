//go:build !js

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSSourceFeedsSignal(t *testing.T) {
	upgrader := websocket.Upgrader{}
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, name := range []string{"listening", "thinking", "speaking"} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"state":"`+name+`"}`)); err != nil {
				return
			}
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	src := NewWSSource(url)
	signal := NewSignal(StateDisconnected)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Run(ctx, signal)
	}()

	require.Eventually(t, func() bool {
		return signal.Load() == StateSpeaking
	}, time.Second*5, time.Millisecond*10)
	assert.EqualValues(t, 3, signal.Changes())

	require.NoError(t, src.Close())
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("Run did not return after Close")
	}

	// closing twice is fine
	assert.NoError(t, src.Close())
}

func TestWSSourceEmptyURL(t *testing.T) {
	src := NewWSSource("")
	assert.Error(t, src.Run(context.Background(), NewSignal(StateDisconnected)))
}

func TestWSSourceStopsRetryingOnCancel(t *testing.T) {
	src := NewWSSource("ws://127.0.0.1:1/nothing")
	src.MinBackoff = time.Millisecond
	src.MaxBackoff = time.Millisecond * 5

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()

	assert.NoError(t, src.Run(ctx, NewSignal(StateDisconnected)))
}

func TestWSSourceSkipsBadMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	release := make(chan struct{})
	var accepted atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		accepted.Add(1)

		for _, msg := range []string{`garbage`, `{"state":"thinking"}`} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	src := NewWSSource("ws" + strings.TrimPrefix(server.URL, "http"))
	defer src.Close()
	signal := NewSignal(StateDisconnected)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Run(ctx, signal)

	require.Eventually(t, func() bool {
		return signal.Load() == StateThinking
	}, time.Second*5, time.Millisecond*10)
	assert.EqualValues(t, 1, accepted.Load())
}
