package notify

import (
	"sync"
	"time"
)

// Toast displays one notification at a time. A new notification replaces the
// current one immediately; otherwise the current one dismisses itself after
// its duration.
type Toast struct {
	mu       sync.Mutex
	current  *Notification
	gen      uint64
	shownID  uint64
	timer    *time.Timer
	closed   bool
	onChange func(n Notification, id uint64, visible bool)
}

// NewToast creates a toast. onChange, if non-nil, is called outside the lock
// whenever a notification is shown (visible=true) or dismissed. id increases
// with every shown notification and is repeated on its dismissal, so a
// listener can drop callbacks that arrive out of order.
func NewToast(onChange func(n Notification, id uint64, visible bool)) *Toast {
	return &Toast{onChange: onChange}
}

// Notify shows n, discarding whatever was showing.
func (t *Toast) Notify(n Notification) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.stopLocked()
	t.gen++
	gen := t.gen
	shown := n
	t.current = &shown
	t.shownID = gen
	t.timer = time.AfterFunc(n.TTL(), func() { t.expire(gen) })
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(n, gen, true)
	}
}

// Current returns the visible notification, if any.
func (t *Toast) Current() (Notification, bool) {
	n, _, ok := t.Showing()
	return n, ok
}

// Showing returns the visible notification with the id it was shown under.
func (t *Toast) Showing() (Notification, uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Notification{}, 0, false
	}
	return *t.current, t.shownID, true
}

// Dismiss hides the current notification now and cancels its timer.
func (t *Toast) Dismiss() {
	t.mu.Lock()
	if t.current == nil {
		t.mu.Unlock()
		return
	}
	t.stopLocked()
	t.gen++
	n, id := *t.current, t.shownID
	t.current = nil
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(n, id, false)
	}
}

// Close cancels any pending dismissal and ignores later notifications.
func (t *Toast) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.gen++
	t.current = nil
	t.closed = true
}

func (t *Toast) expire(gen uint64) {
	t.mu.Lock()
	// A timer that lost the race with Stop must not touch a newer toast.
	if gen != t.gen || t.current == nil {
		t.mu.Unlock()
		return
	}
	n := *t.current
	t.current = nil
	t.timer = nil
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(n, gen, false)
	}
}

func (t *Toast) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
