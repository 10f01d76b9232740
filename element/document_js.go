//go:build js

package element

import (
	"fmt"
	"syscall/js"
)

// DocumentDefiner defines elements in the current page by running the
// loader script, so the page and a plain <script src=widget.js> agree.
type DocumentDefiner struct{}

func (DocumentDefiner) Define(def Definition) error {
	registry := js.Global().Get("customElements")
	if !registry.Truthy() {
		return fmt.Errorf("customElements is not available")
	}
	if registry.Call("get", def.Name).Truthy() {
		return nil
	}

	script, err := LoaderScript(def)
	if err != nil {
		return err
	}

	js.Global().Get("Function").New(script).Invoke()
	return nil
}

var documentRegistry = NewRegistry(DocumentDefiner{})

// DefineInDocument registers def with the page's customElements registry.
func DefineInDocument(def Definition) (bool, error) {
	return documentRegistry.Define(def)
}
