//go:build js

package main

import (
	"syscall/js"

	"voiceorb/element"
	"voiceorb/misc"
)

// Registers <voice-orb> on the host page. The app url comes from a
// <script data-app-url="..."> tag, or the page itself.
func main() {
	appURL := js.Global().Get("location").Get("href").String()

	// currentScript is gone by the time wasm runs, look the tag up
	script := js.Global().Get("document").Call("querySelector", "script[data-app-url]")
	if script.Truthy() {
		appURL = script.Call("getAttribute", "data-app-url").String()
	}

	defined, err := element.DefineInDocument(element.DefaultDefinition(appURL))
	if err != nil {
		misc.ErrLogger.Printf("failed to define element: %v", err)
		return
	}
	if defined {
		misc.InfoLogger.Print("voice-orb defined")
	}
}
