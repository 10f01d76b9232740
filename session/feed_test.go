package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMessage(t *testing.T) {
	signal := NewSignal(StateDisconnected)

	require.NoError(t, applyMessage([]byte(`{"state":"thinking"}`), signal))
	assert.Equal(t, StateThinking, signal.Load())

	require.NoError(t, applyMessage([]byte(`{"state":"dancing"}`), signal))
	assert.Equal(t, StateUnknown, signal.Load())

	changes := signal.Changes()
	assert.Error(t, applyMessage([]byte(`{"state":`), signal))
	assert.Equal(t, StateUnknown, signal.Load())
	assert.Equal(t, changes, signal.Changes())
}

func TestRetryFeedBacksOffUntilCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stamps []time.Time
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		retryFeed(ctx, make(chan struct{}), "ws://test", time.Millisecond*5, time.Millisecond*20, func() (bool, error) {
			stamps = append(stamps, time.Now())
			if len(stamps) == 4 {
				cancel()
			}
			return false, errors.New("refused")
		})
	}()

	select {
	case <-finished:
	case <-time.After(time.Second * 5):
		t.Fatal("retryFeed did not stop after cancel")
	}

	require.Len(t, stamps, 4)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), time.Millisecond*5)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), time.Millisecond*10)
	assert.GreaterOrEqual(t, stamps[3].Sub(stamps[2]), time.Millisecond*20)
}

func TestRetryFeedStopsOnDone(t *testing.T) {
	done := make(chan struct{})
	calls := 0

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		retryFeed(context.Background(), done, "ws://test", time.Millisecond, time.Millisecond, func() (bool, error) {
			calls++
			if calls == 2 {
				close(done)
			}
			return true, errors.New("closed")
		})
	}()

	select {
	case <-finished:
	case <-time.After(time.Second * 5):
		t.Fatal("retryFeed did not stop after done")
	}
	assert.Equal(t, 2, calls)
}
