//go:build !js

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSSource reads state messages from a relay websocket
// and reconnects with exponential backoff when the connection drops.
type WSSource struct {
	URL string

	Dialer *websocket.Dialer

	MinBackoff time.Duration
	MaxBackoff time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

func NewWSSource(url string) *WSSource {
	return &WSSource{
		URL:        url,
		Dialer:     websocket.DefaultDialer,
		MinBackoff: time.Millisecond * 250,
		MaxBackoff: time.Second * 10,
		done:       make(chan struct{}),
	}
}

func (w *WSSource) Run(ctx context.Context, signal *Signal) error {
	if w.URL == "" {
		return fmt.Errorf("ws source: empty url")
	}

	retryFeed(ctx, w.done, w.URL, w.MinBackoff, w.MaxBackoff, func() (bool, error) {
		return w.runOnce(ctx, signal)
	})
	return nil
}

func (w *WSSource) runOnce(ctx context.Context, signal *Signal) (bool, error) {
	conn, _, err := w.Dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return false, err
	}

	if !w.setConn(conn) {
		conn.Close()
		return false, errors.New("source closed")
	}
	defer w.setConn(nil)
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	infoLogger.Printf("state feed connected to %s", w.URL)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		if err := applyMessage(data, signal); err != nil {
			warnLogger.Print(err)
		}
	}
}

func (w *WSSource) setConn(conn *websocket.Conn) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if conn != nil && w.closed {
		return false
	}
	w.conn = conn
	return true
}

func (w *WSSource) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)

	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}
