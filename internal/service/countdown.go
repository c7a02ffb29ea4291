package service

import (
	"sync"
	"time"
)

// Countdown is a cancelable one-shot countdown. Start arms a ticker that
// counts down once per interval; Cancel disarms it before expiry with no
// side effects; reaching zero runs the expire callback exactly once and
// disarms.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	active    bool
	stop      chan struct{}
}

// StartCountdown arms a countdown of the given number of ticks and returns
// its handle. onExpire runs on the countdown's own goroutine when the count
// reaches zero.
func StartCountdown(ticks int, interval time.Duration, onExpire func()) *Countdown {
	c := &Countdown{
		remaining: ticks,
		active:    true,
		stop:      make(chan struct{}),
	}
	go c.run(interval, onExpire)
	return c
}

func (c *Countdown) run(interval time.Duration, onExpire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.active {
				c.mu.Unlock()
				return
			}
			c.remaining--
			expired := c.remaining <= 0
			if expired {
				c.active = false
			}
			c.mu.Unlock()

			if expired {
				onExpire()
				return
			}
		}
	}
}

// Cancel disarms the countdown. Safe to call more than once and after
// expiry; a cancel that loses the race with the final tick is a no-op.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.active = false
		close(c.stop)
	}
}

// Active reports whether the countdown is still armed.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Remaining returns the ticks left before expiry.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
