package popup

import (
	"sync"
	"time"
)

// Timer drives the popup lifecycle outside the TUI event loop.
type Timer struct {
	fade     *time.Timer
	remove   *time.Timer
	onFade   func()
	onRemove func()
	mu       sync.Mutex
	stopped  bool
}

// StartTimer calls onFade after ttl and onRemove FadeDuration later.
// Either callback may be nil.
func StartTimer(ttl time.Duration, onFade, onRemove func()) *Timer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t := &Timer{onFade: onFade, onRemove: onRemove}
	t.mu.Lock()
	t.fade = time.AfterFunc(ttl, t.fire)
	t.mu.Unlock()
	return t
}

func (t *Timer) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.remove = time.AfterFunc(FadeDuration, t.finish)
	onFade := t.onFade
	t.mu.Unlock()

	if onFade != nil {
		onFade()
	}
}

func (t *Timer) finish() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	onRemove := t.onRemove
	t.mu.Unlock()

	if onRemove != nil {
		onRemove()
	}
}

// Stop cancels any pending callbacks. It reports whether anything was still pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.fade.Stop()
	if t.remove != nil {
		t.remove.Stop()
	}
	return true
}
