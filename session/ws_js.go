//go:build js

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall/js"
	"time"
)

// WSSource reads state messages from a relay websocket using the
// browser's WebSocket and reconnects with exponential backoff.
type WSSource struct {
	URL string

	MinBackoff time.Duration
	MaxBackoff time.Duration

	mu     sync.Mutex
	socket js.Value
	closed bool
	done   chan struct{}
}

func NewWSSource(url string) *WSSource {
	return &WSSource{
		URL:        url,
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

func newWebSocket(url string) (socket js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("new WebSocket: %v", r)
		}
	}()

	ctor := js.Global().Get("WebSocket")
	if !ctor.Truthy() {
		return js.Undefined(), errors.New("WebSocket is not available")
	}
	return ctor.New(url), nil
}

func (w *WSSource) runOnce(ctx context.Context, signal *Signal) (bool, error) {
	socket, err := newWebSocket(w.URL)
	if err != nil {
		return false, err
	}

	if !w.setSocket(socket) {
		socket.Call("close")
		return false, errors.New("source closed")
	}
	defer w.setSocket(js.Undefined())

	opened := make(chan struct{}, 1)
	closed := make(chan struct{}, 1)

	onOpen := js.FuncOf(func(this js.Value, args []js.Value) any {
		select {
		case opened <- struct{}{}:
		default:
		}
		return nil
	})
	defer onOpen.Release()

	onMessage := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		data := args[0].Get("data")
		if data.Type() != js.TypeString {
			return nil
		}
		if err := applyMessage([]byte(data.String()), signal); err != nil {
			warnLogger.Print(err)
		}
		return nil
	})
	defer onMessage.Release()

	onClose := js.FuncOf(func(this js.Value, args []js.Value) any {
		select {
		case closed <- struct{}{}:
		default:
		}
		return nil
	})
	defer onClose.Release()

	socket.Set("onopen", onOpen)
	socket.Set("onmessage", onMessage)
	socket.Set("onclose", onClose)

	// handlers are detached before the funcs above are released
	defer func() {
		for _, name := range []string{"onopen", "onmessage", "onclose"} {
			socket.Set(name, js.Null())
		}
		socket.Call("close")
	}()

	connected := false

	for {
		select {
		case <-opened:
			connected = true
			infoLogger.Printf("state feed connected to %s", w.URL)
		case <-closed:
			if connected {
				return true, errors.New("connection closed")
			}
			return false, errors.New("connection failed")
		case <-ctx.Done():
			return connected, ctx.Err()
		case <-w.done:
			return connected, errors.New("source closed")
		}
	}
}

func (w *WSSource) setSocket(socket js.Value) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if socket.Truthy() && w.closed {
		return false
	}
	w.socket = socket
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

	if w.socket.Truthy() {
		w.socket.Call("close")
	}
	return nil
}
