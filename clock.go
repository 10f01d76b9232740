package voiceorb

import (
	"math"
	"time"
)

// FrameTime is the length of one update at the default TPS.
const FrameTime = time.Second / 60

// TimerID identifies something registered on a Scheduler.
// The zero value never refers to a live entry.
type TimerID uint64

type scheduledEntry struct {
	ID    TimerID
	At    time.Duration
	Every time.Duration // 0 for one shot

	Callback func()
}

// Scheduler is a simulated clock owning every cadence of the orb.
// Frame callbacks run once per Advance, timers run at their due time,
// in order, with Now reporting that due time while they run.
//
// It is not safe for concurrent use, everything happens on the update goroutine.
type Scheduler struct {
	now time.Duration

	lastID TimerID

	timers []scheduledEntry
	frames []frameEntry

	closed bool
}

type frameEntry struct {
	ID       TimerID
	Callback func(dt time.Duration)
}

func NewScheduler() *Scheduler {
	return new(Scheduler)
}

func (s *Scheduler) Now() time.Duration {
	return s.now
}

func (s *Scheduler) nextID() TimerID {
	s.lastID++
	return s.lastID
}

// After runs callback once, d from now.
func (s *Scheduler) After(d time.Duration, callback func()) TimerID {
	if s.closed {
		return 0
	}
	id := s.nextID()
	s.timers = append(s.timers, scheduledEntry{
		ID:       id,
		At:       s.now + max(d, 0),
		Callback: callback,
	})
	return id
}

// Every runs callback every d, first time d from now.
func (s *Scheduler) Every(d time.Duration, callback func()) TimerID {
	if s.closed || d <= 0 {
		return 0
	}
	id := s.nextID()
	s.timers = append(s.timers, scheduledEntry{
		ID:       id,
		At:       s.now + d,
		Every:    d,
		Callback: callback,
	})
	return id
}

// OnFrame registers callback to run at the end of every Advance.
func (s *Scheduler) OnFrame(callback func(dt time.Duration)) TimerID {
	if s.closed {
		return 0
	}
	id := s.nextID()
	s.frames = append(s.frames, frameEntry{ID: id, Callback: callback})
	return id
}

// Cancel removes a timer or frame callback.
// Returns false if id was already gone.
func (s *Scheduler) Cancel(id TimerID) bool {
	if id == 0 {
		return false
	}
	for i, t := range s.timers {
		if t.ID == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	for i, f := range s.frames {
		if f.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops everything and refuses new registrations.
func (s *Scheduler) CancelAll() {
	s.timers = nil
	s.frames = nil
	s.closed = true
}

func (s *Scheduler) Closed() bool {
	return s.closed
}

// Pending is the number of live timers, frame callbacks not included.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

func (s *Scheduler) IsPending(id TimerID) bool {
	for _, t := range s.timers {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Scheduler) popDue(until time.Duration) (scheduledEntry, bool) {
	best := -1
	for i, t := range s.timers {
		if t.At > until {
			continue
		}
		if best < 0 || t.At < s.timers[best].At ||
			(t.At == s.timers[best].At && t.ID < s.timers[best].ID) {
			best = i
		}
	}
	if best < 0 {
		return scheduledEntry{}, false
	}

	entry := s.timers[best]
	if entry.Every > 0 {
		s.timers[best].At += entry.Every
	} else {
		s.timers = append(s.timers[:best], s.timers[best+1:]...)
	}
	return entry, true
}

// Advance moves the clock by dt, firing due timers then frame callbacks.
// Negative or NaN-ish durations are treated as 0.
func (s *Scheduler) Advance(dt time.Duration) {
	if s.closed {
		return
	}
	if dt < 0 || dt > time.Duration(math.MaxInt64/2) {
		dt = 0
	}

	until := s.now + dt

	for {
		entry, ok := s.popDue(until)
		if !ok {
			break
		}
		s.now = entry.At
		entry.Callback()

		if s.closed {
			return
		}
	}

	s.now = until

	// callbacks may cancel frames, iterate over a copy
	frames := append([]frameEntry(nil), s.frames...)
	for _, f := range frames {
		if s.closed {
			return
		}
		if s.hasFrame(f.ID) {
			f.Callback(dt)
		}
	}
}

func (s *Scheduler) hasFrame(id TimerID) bool {
	for _, f := range s.frames {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Timer for profiling.
// Usage :
//
//	{
//		timer := NewProfTimer("some function")
//		defer timer.Report()
//		// reports some function took 10ms
//	}
type ProfTimer struct {
	Start time.Time
	Name  string
}

func NewProfTimer(name string) ProfTimer {
	return ProfTimer{
		Start: time.Now(),
		Name:  name,
	}
}

func (p ProfTimer) Report() {
	now := time.Now()
	InfoLogger.Printf("\"%v\" took %v\n", p.Name, now.Sub(p.Start))
}
