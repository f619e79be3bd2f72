// Package timer provides the single-shot countdowns that drive in-game timeouts.
package timer

import (
	"sync"
	"time"
)

// Timer is a single-shot countdown that is either armed with a deadline or
// disarmed. It is safe for concurrent use.
//
// Every Arm and Disarm starts a new generation; a callback whose generation
// is no longer current is dropped, so a countdown replaced or cancelled just
// as it expires never runs its callback.
type Timer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	armed    bool
	deadline time.Time
}

// New returns a disarmed Timer.
func New() *Timer {
	return &Timer{}
}

// Arm starts a countdown that calls onFire after d, replacing any pending
// countdown. onFire runs in its own goroutine and the timer is disarmed
// before it is called.
//
// Precondition: d > 0; onFire must not be nil.
// Postcondition: Armed reports true and Deadline is now+d.
func (t *Timer) Arm(d time.Duration, onFire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.armed = true
	t.deadline = time.Now().Add(d)
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.gen != gen || !t.armed {
			t.mu.Unlock()
			return
		}
		t.armed = false
		t.mu.Unlock()
		onFire()
	})
}

// Disarm cancels the pending countdown. Safe to call multiple times and on a
// timer that was never armed.
//
// Postcondition: the current countdown's callback will not start after
// Disarm returns. Returns true if a countdown was pending.
func (t *Timer) Disarm() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	wasArmed := t.armed
	t.armed = false
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
	return wasArmed
}

// Armed reports whether a countdown is pending.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// Deadline returns the expiry time of the pending countdown.
// The boolean is false when the timer is disarmed.
func (t *Timer) Deadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed {
		return time.Time{}, false
	}
	return t.deadline, true
}
