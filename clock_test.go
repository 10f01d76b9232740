package voiceorb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOrder(t *testing.T) {
	s := NewScheduler()

	var fired []string
	var firedAt []time.Duration

	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			firedAt = append(firedAt, s.Now())
		}
	}

	s.After(30*time.Millisecond, record("a"))
	s.After(10*time.Millisecond, record("b"))
	s.After(10*time.Millisecond, record("c"))

	frames := 0
	s.OnFrame(func(dt time.Duration) {
		frames++
		assert.Equal(t, 50*time.Millisecond, dt)
	})

	s.Advance(50 * time.Millisecond)

	assert.Equal(t, []string{"b", "c", "a"}, fired)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond,
	}, firedAt)
	assert.Equal(t, 1, frames)
	assert.Equal(t, 50*time.Millisecond, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler()

	count := 0
	id := s.Every(100*time.Millisecond, func() { count++ })
	require.NotZero(t, id)

	s.Advance(time.Second)
	assert.Equal(t, 10, count)
	assert.True(t, s.IsPending(id))

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id))

	s.Advance(time.Second)
	assert.Equal(t, 10, count)

	assert.Zero(t, s.Every(0, func() {}))
}

func TestSchedulerCancelFromCallback(t *testing.T) {
	s := NewScheduler()

	var later TimerID
	laterFired := false

	s.After(10*time.Millisecond, func() {
		s.Cancel(later)
	})
	later = s.After(20*time.Millisecond, func() { laterFired = true })

	var second TimerID
	secondRan := false
	s.OnFrame(func(time.Duration) { s.Cancel(second) })
	second = s.OnFrame(func(time.Duration) { secondRan = true })

	s.Advance(time.Second)

	assert.False(t, laterFired)
	assert.False(t, secondRan)
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()

	fired := false
	s.After(time.Millisecond, func() { fired = true })
	s.OnFrame(func(time.Duration) { fired = true })

	s.CancelAll()
	assert.True(t, s.Closed())
	assert.Equal(t, 0, s.Pending())

	assert.Zero(t, s.After(time.Millisecond, func() {}))
	assert.Zero(t, s.OnFrame(func(time.Duration) {}))

	s.Advance(time.Second)
	assert.False(t, fired)
	assert.Equal(t, time.Duration(0), s.Now())
}

func TestSchedulerNegativeAdvance(t *testing.T) {
	s := NewScheduler()
	s.Advance(time.Second)
	s.Advance(-time.Second)
	assert.Equal(t, time.Second, s.Now())
}
