package session

import (
	"context"
	"sync/atomic"
)

// Signal holds the latest session state.
//
// Sources write from their own goroutines, the render loop reads once per frame.
type Signal struct {
	state   atomic.Int32
	changes atomic.Uint64
}

func NewSignal(initial State) *Signal {
	s := new(Signal)
	s.state.Store(int32(initial))
	return s
}

func (s *Signal) Set(state State) {
	if State(s.state.Swap(int32(state))) != state {
		s.changes.Add(1)
	}
}

// SetString parses and stores name. Unknown names are stored as StateUnknown
// and reported with ErrUnknownState.
func (s *Signal) SetString(name string) error {
	state, ok := ParseState(name)
	s.Set(state)
	if !ok {
		return ErrUnknownState
	}
	return nil
}

func (s *Signal) Load() State {
	return State(s.state.Load())
}

// Changes counts how many times the stored state actually changed.
func (s *Signal) Changes() uint64 {
	return s.changes.Load()
}

// Source feeds a Signal until ctx is done or Close is called.
type Source interface {
	Run(ctx context.Context, signal *Signal) error
	Close() error
}
