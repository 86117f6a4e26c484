package oscy

import (
	"testing"
	"time"
)

func TestClockFiresOnInterval(t *testing.T) {
	c := NewClock()
	var at []time.Duration
	c.Every(10*time.Millisecond, func() { at = append(at, c.Now()) })

	c.Advance(9 * time.Millisecond)
	if len(at) != 0 {
		t.Fatalf("tick fired early: %v", at)
	}
	c.Advance(26 * time.Millisecond)
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	if len(at) != len(want) {
		t.Fatalf("tick count mismatch: got=%v want=%v", at, want)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Fatalf("tick %d at %v, want %v", i, at[i], want[i])
		}
	}
	if c.Now() != 35*time.Millisecond {
		t.Fatalf("clock now mismatch: got=%v", c.Now())
	}
}

func TestClockOrdersByDeadlineThenRegistration(t *testing.T) {
	c := NewClock()
	var order []string
	c.Every(20*time.Millisecond, func() { order = append(order, "slow") })
	c.Every(10*time.Millisecond, func() { order = append(order, "fast") })
	c.Advance(20 * time.Millisecond)

	want := []string{"fast", "slow", "fast"}
	if len(order) != len(want) {
		t.Fatalf("order mismatch: got=%v want=%v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch: got=%v want=%v", order, want)
		}
	}
}

func TestClockStopFromCallback(t *testing.T) {
	c := NewClock()
	n := 0
	var tk Ticker
	tk = c.Every(time.Millisecond, func() {
		n++
		if n == 3 {
			tk.Stop()
		}
	})
	c.Advance(50 * time.Millisecond)
	if n != 3 {
		t.Fatalf("expected 3 ticks before stop, got %d", n)
	}
	if c.Pending() != 0 {
		t.Fatalf("expected no pending tickers, got %d", c.Pending())
	}
	tk.Stop()
}

func TestClockTickerRegisteredInsideAdvance(t *testing.T) {
	c := NewClock()
	var inner []time.Duration
	var outer Ticker
	outer = c.Every(5*time.Millisecond, func() {
		outer.Stop()
		c.Every(5*time.Millisecond, func() { inner = append(inner, c.Now()) })
	})
	c.Advance(20 * time.Millisecond)
	want := []time.Duration{10 * time.Millisecond, 15 * time.Millisecond, 20 * time.Millisecond}
	if len(inner) != len(want) {
		t.Fatalf("inner ticks mismatch: got=%v want=%v", inner, want)
	}
	for i := range want {
		if inner[i] != want[i] {
			t.Fatalf("inner ticks mismatch: got=%v want=%v", inner, want)
		}
	}
}
