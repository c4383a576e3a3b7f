package session

import (
	"sync"
	"time"
)

// Navigator leaves the session, e.g. by returning to the lobby
type Navigator interface {
	Navigate()
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func()

// Navigate calls f().
func (f NavigatorFunc) Navigate() { f() }

// navigation is a delayed task that fires at most once
type navigation struct {
	delay time.Duration
	nav   Navigator

	once  sync.Once
	mu    sync.Mutex
	timer *time.Timer
	fired bool
	done  bool
}

func newNavigation(delay time.Duration, nav Navigator) *navigation {
	return &navigation{delay: delay, nav: nav}
}

// Schedule starts the timer on the first call. Later calls do nothing and
// report false.
func (n *navigation) Schedule() bool {
	scheduled := false
	n.once.Do(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.done {
			return
		}
		n.timer = time.AfterFunc(n.delay, n.fire)
		scheduled = true
	})
	return scheduled
}

func (n *navigation) fire() {
	n.mu.Lock()
	if n.done {
		n.mu.Unlock()
		return
	}
	n.done = true
	n.fired = true
	n.mu.Unlock()

	if n.nav != nil {
		n.nav.Navigate()
	}
}

// Cancel stops a pending task. A task that already fired is unaffected.
func (n *navigation) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.done = true
	if n.timer != nil {
		n.timer.Stop()
	}
}

// Scheduled reports whether the timer was ever started.
func (n *navigation) Scheduled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer != nil
}

// Fired reports whether the navigator was called.
func (n *navigation) Fired() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fired
}
