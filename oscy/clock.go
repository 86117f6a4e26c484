package oscy

import "time"

// Scheduler runs fn repeatedly every interval until the returned Ticker is
// stopped. Callbacks must run on the same logical thread as the code that
// drives the instrument.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Ticker
}

// Ticker cancels a repeating callback. Stop is idempotent.
type Ticker interface {
	Stop()
}

// Clock is a virtual-time Scheduler. Nothing fires until Advance is called,
// and callbacks run synchronously inside Advance in deadline order (ties in
// registration order). The render loop, the UI frame loop and tests all drive
// the instrument through Advance.
type Clock struct {
	now     time.Duration
	seq     uint64
	tickers []*clockTicker
}

type clockTicker struct {
	clock    *Clock
	seq      uint64
	next     time.Duration
	interval time.Duration
	fn       func()
	stopped  bool
}

func NewClock() *Clock {
	return &Clock{}
}

// Now returns the virtual time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Every implements Scheduler. Intervals below one nanosecond are raised to one.
func (c *Clock) Every(interval time.Duration, fn func()) Ticker {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	c.seq++
	t := &clockTicker{
		clock:    c,
		seq:      c.seq,
		next:     c.now + interval,
		interval: interval,
		fn:       fn,
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Pending returns the number of live tickers.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing every tick that falls due.
// Tickers registered by a callback are scheduled relative to that callback's
// deadline and fire within the same Advance if they fall due.
func (c *Clock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := c.now + d
	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		c.now = t.next
		t.next += t.interval
		t.fn()
	}
	c.now = target
	c.compact()
}

func (c *Clock) nextDue(target time.Duration) *clockTicker {
	var best *clockTicker
	for _, t := range c.tickers {
		if t.stopped || t.next > target {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *Clock) compact() {
	live := c.tickers[:0]
	for _, t := range c.tickers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.tickers); i++ {
		c.tickers[i] = nil
	}
	c.tickers = live
}

func (t *clockTicker) Stop() {
	t.stopped = true
}
