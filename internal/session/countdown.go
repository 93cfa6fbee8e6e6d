package session

import (
	"math"
	"sync"
	"time"
)

// Countdown is the single timer driving expiry for one reservation.
// Every TTL update from the push channel restarts it; only the most
// recently armed generation may fire, so several TTL messages landing
// in the same tick still produce exactly one expiry.  The countdown is
// advisory: the server's own expiry is authoritative and the expiry
// callback must not issue a release call.
type Countdown struct {
	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	gen      uint64
	armed    bool
	onExpire func()
}

// NewCountdown returns a stopped countdown that invokes onExpire when
// the armed TTL reaches zero.  onExpire runs on the timer goroutine
// without the countdown lock held, so it may re-enter the countdown.
func NewCountdown(onExpire func()) *Countdown {
	return &Countdown{onExpire: onExpire}
}

// Refresh starts or restarts the countdown with a new TTL.  A previous
// pending expiry is superseded: its generation can no longer fire.
func (c *Countdown) Refresh(ttl time.Duration) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.armed = true
	c.deadline = time.Now().Add(ttl)
	c.timer = time.AfterFunc(ttl, func() { c.fire(gen) })
	c.mu.Unlock()
}

// Stop disarms the countdown.  Any pending expiry is cancelled.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.armed = false
	c.deadline = time.Time{}
	c.mu.Unlock()
}

// Remaining returns the whole seconds left before expiry, zero when
// the countdown is not armed.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed {
		return 0
	}
	left := time.Until(c.deadline)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// fire runs on the timer goroutine.  The generation check makes stale
// timers (superseded by Refresh or Stop) no-ops.
func (c *Countdown) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = false
	c.timer = nil
	c.deadline = time.Time{}
	c.mu.Unlock()
	if c.onExpire != nil {
		c.onExpire()
	}
}
