package main

import (
	"image/color"
	"math"
	"time"

	"github.com/cwbudde/algo-oscy/oscy"
)

const (
	rippleLife      = 600 * time.Millisecond
	rippleMaxRadius = 80.0
	maxRipples      = 64
)

type ripple struct {
	x, y float64
	hue  float64
	age  time.Duration
}

// radius grows linearly over the ripple's life.
func (r ripple) radius() float64 {
	return rippleMaxRadius * r.progress()
}

func (r ripple) progress() float64 {
	p := float64(r.age) / float64(rippleLife)
	if p > 1 {
		return 1
	}
	return p
}

func (r ripple) color() color.RGBA {
	c := hsvToRGBA(r.hue, 0.8, 1)
	c.A = uint8(255 * (1 - r.progress()))
	return c
}

// rippleSet collects visual feedback requests from the multiplexer. Show runs
// inside Update, so no locking is needed.
type rippleSet struct {
	items []ripple
}

func (s *rippleSet) Show(c oscy.Contact) {
	if len(s.items) >= maxRipples {
		s.items = s.items[1:]
	}
	s.items = append(s.items, ripple{x: c.OffsetX, y: c.OffsetY, hue: c.Hue()})
}

func (s *rippleSet) update(dt time.Duration) {
	live := s.items[:0]
	for _, r := range s.items {
		r.age += dt
		if r.age < rippleLife {
			live = append(live, r)
		}
	}
	s.items = live
}

// hsvToRGBA converts hue in degrees and saturation/value in [0, 1].
func hsvToRGBA(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
