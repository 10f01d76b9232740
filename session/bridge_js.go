//go:build js

package session

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"syscall/js"
)

// BridgeSource lets the page drive the orb.
//
// It reads an initial ?state= from the page url, exposes a global
// function (voiceOrbSetState by default) and listens for
// {type: "voiceorb-state", state: "..."} messages posted by the embedding page.
type BridgeSource struct {
	FuncName    string
	MessageType string

	once sync.Once
	done chan struct{}
}

func NewBridgeSource() *BridgeSource {
	return &BridgeSource{
		FuncName:    "voiceOrbSetState",
		MessageType: "voiceorb-state",
		done:        make(chan struct{}),
	}
}

func (b *BridgeSource) Run(ctx context.Context, signal *Signal) error {
	global := js.Global()

	if loc := global.Get("location"); loc.Truthy() {
		query, err := url.ParseQuery(strings.TrimPrefix(loc.Get("search").String(), "?"))
		if err == nil {
			if name := query.Get("state"); name != "" {
				if err := signal.SetString(name); err != nil {
					warnLogger.Printf("?state=%s: %v", name, err)
				}
			}
		}
	}

	setFunc := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return false
		}
		return signal.SetString(args[0].String()) == nil
	})
	defer setFunc.Release()

	onMessage := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		data := args[0].Get("data")
		if data.Type() != js.TypeObject {
			return nil
		}
		if data.Get("type").String() != b.MessageType {
			return nil
		}
		if err := signal.SetString(data.Get("state").String()); err != nil {
			warnLogger.Printf("posted state: %v", err)
		}
		return nil
	})
	defer onMessage.Release()

	global.Set(b.FuncName, setFunc)
	global.Call("addEventListener", "message", onMessage)

	select {
	case <-ctx.Done():
	case <-b.done:
	}

	global.Call("removeEventListener", "message", onMessage)
	global.Delete(b.FuncName)

	return nil
}

func (b *BridgeSource) Close() error {
	b.once.Do(func() {
		close(b.done)
	})
	return nil
}
