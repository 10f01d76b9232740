// Package session carries the voice session's state signal into the orb.
//
// The voice session itself (transport, agent, microphone) lives elsewhere;
// this package only knows the enum-like state it publishes and a few ways
// of getting that value into the render loop.
package session

import (
	"errors"
	"strings"
)

type State int32

const (
	StateDisconnected State = iota
	StateListening
	StateThinking
	StateSpeaking
	StateConnecting
	StateInitializing

	StateUnknown

	StateSize
)

var ErrUnknownState = errors.New("unknown session state")

var stateNames = [StateSize]string{
	StateDisconnected: "disconnected",
	StateListening:    "listening",
	StateThinking:     "thinking",
	StateSpeaking:     "speaking",
	StateConnecting:   "connecting",
	StateInitializing: "initializing",
	StateUnknown:      "unknown",
}

func (s State) String() string {
	if s < 0 || s >= StateSize {
		return stateNames[StateUnknown]
	}
	return stateNames[s]
}

func (s State) Valid() bool {
	return 0 <= s && s < StateUnknown
}

// ParseState accepts the state names used by the voice session
// ("disconnected", "listening", ...), case and surrounding space insensitive.
// Anything else comes back as StateUnknown and false.
func ParseState(str string) (State, bool) {
	str = strings.ToLower(strings.TrimSpace(str))

	for s := State(0); s < StateUnknown; s++ {
		if stateNames[s] == str {
			return s, true
		}
	}

	return StateUnknown, false
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText never fails on unknown names, they decode to StateUnknown
// so a newer session SDK can't break the widget.
func (s *State) UnmarshalText(text []byte) error {
	*s, _ = ParseState(string(text))
	return nil
}

// Message is the JSON shape states travel in over the relay.
type Message struct {
	State State `json:"state"`
}
