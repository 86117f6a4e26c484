package main

import (
	"image/color"
	"testing"
	"time"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/softsynth"
)

func TestHSVPrimaries(t *testing.T) {
	cases := []struct {
		hue  float64
		want color.RGBA
	}{
		{0, color.RGBA{R: 255, A: 255}},
		{120, color.RGBA{G: 255, A: 255}},
		{240, color.RGBA{B: 255, A: 255}},
		{360, color.RGBA{R: 255, A: 255}},
		{-120, color.RGBA{B: 255, A: 255}},
	}
	for _, c := range cases {
		if got := hsvToRGBA(c.hue, 1, 1); got != c.want {
			t.Fatalf("hue %v: got=%v want=%v", c.hue, got, c.want)
		}
	}
}

func TestRippleSetAgesOut(t *testing.T) {
	s := &rippleSet{}
	s.Show(oscy.NewContact(1, 40, 30, 100, 100))
	if len(s.items) != 1 || s.items[0].x != 40 || s.items[0].hue != 86 {
		t.Fatalf("ripple not recorded: %+v", s.items)
	}
	s.update(rippleLife / 2)
	r := s.items[0]
	if r.radius() != rippleMaxRadius/2 || r.color().A != 127 {
		t.Fatalf("half-life ripple: radius=%f alpha=%d", r.radius(), r.color().A)
	}
	s.update(rippleLife / 2)
	if len(s.items) != 0 {
		t.Fatalf("expired ripple kept: %d", len(s.items))
	}
}

func TestRippleSetIsBounded(t *testing.T) {
	s := &rippleSet{}
	for i := 0; i < maxRipples+10; i++ {
		s.Show(oscy.Contact{ID: oscy.ContactID(i), OffsetX: float64(i)})
	}
	if len(s.items) != maxRipples || s.items[0].x != 10 {
		t.Fatalf("len=%d first=%f", len(s.items), s.items[0].x)
	}
	s.update(time.Millisecond)
	if len(s.items) != maxRipples {
		t.Fatalf("young ripples dropped")
	}
}

func newTestGame(t *testing.T) *game {
	t.Helper()
	ac, err := softsynth.NewContext(8000)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	clock := oscy.NewClock()
	m, err := oscy.NewMultiplexer(ac, clock, nil)
	if err != nil {
		t.Fatalf("NewMultiplexer: %v", err)
	}
	g := newGame(m, clock, log.Discard())
	g.width, g.height = 100, 100
	return g
}

func TestLastTouchKeepsHeldMouseVoice(t *testing.T) {
	g := newTestGame(t)
	g.mux.Start([]oscy.Contact{g.contact(oscy.Pointer, 10, 10), g.contact(3, 50, 50), g.contact(4, 60, 60)})

	if got := g.endTouches([]oscy.ContactID{3}, 0, true); got != 1 {
		t.Fatalf("released: got=%d want=1", got)
	}
	if ids := g.mux.IDs(); len(ids) != 2 || ids[0] != oscy.Pointer {
		t.Fatalf("held mouse voice must survive: %v", ids)
	}

	if got := g.endTouches(nil, 0, false); got != 2 {
		t.Fatalf("reconcile: got=%d want=2", got)
	}
	if g.mux.Len() != 0 {
		t.Fatalf("stale voices left: %v", g.mux.IDs())
	}
}
