// Package element registers the orb as a custom element on host pages.
//
// Registration is an explicit call made once by the hosting application.
// Defining the same element name twice is a no-op.
package element

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

var (
	ErrInvalidName = errors.New("invalid custom element name")
	ErrInvalidURL  = errors.New("invalid app url")
)

// Definition describes the element a host page gets.
type Definition struct {
	// Name is the custom element tag, e.g. "voice-orb".
	Name string
	// AppURL is the page the element frames (the wasm build).
	AppURL string
	// Height of the element, in any css length.
	Height string
	// Stylesheet is an optional extra stylesheet the loader links in.
	Stylesheet string
	// Allow is the iframe permission policy.
	Allow string
}

func DefaultDefinition(appURL string) Definition {
	return Definition{
		Name:   "voice-orb",
		AppURL: appURL,
		Height: "300px",
		Allow:  "microphone; autoplay",
	}
}

// ValidateName checks the parts of the custom element name grammar
// that browsers reject most often.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if c := name[0]; c < 'a' || c > 'z' {
		return fmt.Errorf("%w: %q must start with a lowercase letter", ErrInvalidName, name)
	}
	if !strings.Contains(name, "-") {
		return fmt.Errorf("%w: %q must contain a hyphen", ErrInvalidName, name)
	}
	for _, r := range name {
		ok := r == '-' || r == '.' || r == '_' ||
			('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r > 0x7f
		if !ok {
			return fmt.Errorf("%w: %q has invalid character %q", ErrInvalidName, name, r)
		}
	}
	switch name {
	case "annotation-xml", "color-profile", "font-face", "font-face-src",
		"font-face-uri", "font-face-format", "font-face-name", "missing-glyph":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}

func (d Definition) Validate() error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	u, err := url.Parse(d.AppURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if d.AppURL == "" || (u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, d.AppURL)
	}
	return nil
}

// Definer does the actual registration, e.g. against the browser's
// customElements registry.
type Definer interface {
	Define(def Definition) error
}

type Registry struct {
	mu      sync.Mutex
	defined map[string]Definition
	definer Definer
}

// NewRegistry returns a registry that forwards first-time definitions to definer.
// definer may be nil, in which case definitions are only recorded.
func NewRegistry(definer Definer) *Registry {
	return &Registry{
		defined: make(map[string]Definition),
		definer: definer,
	}
}

// Define registers def once per name.
// It reports whether this call did the registration.
func (r *Registry) Define(def Definition) (bool, error) {
	if err := def.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defined[def.Name]; ok {
		return false, nil
	}

	if r.definer != nil {
		if err := r.definer.Define(def); err != nil {
			return false, fmt.Errorf("define %s: %w", def.Name, err)
		}
	}

	r.defined[def.Name] = def
	return true, nil
}
