package notify

// Channel is a buffered sink that never blocks the sender. When the buffer
// is full the oldest pending notification is dropped.
type Channel struct {
	ch chan Notification
}

// NewChannel creates a channel sink with the given buffer size (minimum 1).
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan Notification, size)}
}

// Notify enqueues n.
func (c *Channel) Notify(n Notification) {
	for {
		select {
		case c.ch <- n:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

// C returns the receive side.
func (c *Channel) C() <-chan Notification {
	return c.ch
}
