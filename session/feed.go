package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// applyMessage decodes one relay message and stores its state.
func applyMessage(data []byte, signal *Signal) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("bad state message: %w", err)
	}
	if !msg.State.Valid() {
		warnLogger.Printf("state feed: unknown state, treating as %v", msg.State)
	}
	signal.Set(msg.State)
	return nil
}

// retryFeed calls connect until ctx is done or done is closed,
// sleeping with exponential backoff between attempts.
// The backoff resets after an attempt that managed to connect.
func retryFeed(
	ctx context.Context,
	done <-chan struct{},
	url string,
	minBackoff, maxBackoff time.Duration,
	connect func() (connected bool, err error),
) {
	backoff := minBackoff

	for {
		connected, err := connect()

		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		default:
		}

		if connected {
			backoff = minBackoff
		}

		warnLogger.Printf("state feed %s: %v (retrying in %v)", url, err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}
