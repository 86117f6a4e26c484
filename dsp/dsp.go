package dsp

import (
	"math"

	approx "github.com/cwbudde/algo-approx"
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Smoother is a one-pole lowpass that glides a control value towards its
// target. Parameter writes from the control thread arrive as steps; the
// smoother turns them into short ramps so the output does not click.
// State is float64 so the glide lands on the target instead of stalling a
// few float32 ulps short of it.
type Smoother struct {
	coeff   float64
	current float64
	target  float32
}

// smootherSnap is the distance, relative to max(1, |target|), below which
// the smoother lands exactly on its target.
const smootherSnap = 1e-7

// NewSmoother creates a smoother with the given time constant. A zero or
// negative time constant disables smoothing.
func NewSmoother(timeConstantSec, sampleRate float32, initial float32) *Smoother {
	s := &Smoother{current: float64(initial), target: initial}
	s.SetTime(timeConstantSec, sampleRate)
	return s
}

// SetTime recomputes the smoothing coefficient.
func (s *Smoother) SetTime(timeConstantSec, sampleRate float32) {
	if timeConstantSec <= 0 || sampleRate <= 0 {
		s.coeff = 0
		return
	}
	s.coeff = float64(approx.FastExp(-1 / (timeConstantSec * sampleRate)))
}

// SetTarget sets the value the smoother glides towards.
func (s *Smoother) SetTarget(v float32) {
	s.target = v
}

// Reset jumps to v without gliding.
func (s *Smoother) Reset(v float32) {
	s.current = float64(v)
	s.target = v
}

// Target returns the value being approached.
func (s *Smoother) Target() float32 {
	return s.target
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float32 {
	t := float64(s.target)
	next := dspcore.FlushDenormals(t + s.coeff*(s.current-t))
	if next == s.current || math.Abs(next-t) <= smootherSnap*math.Max(1, math.Abs(t)) {
		next = t
	}
	s.current = next
	return float32(s.current)
}

// Biquad implements a second-order IIR filter (no heap allocations in Process)
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	x1, x2 float32
	y1, y2 float32
}

// NewBiquad creates a new biquad filter with the given coefficients
func NewBiquad(b0, b1, b2, a1, a2 float32) *Biquad {
	return &Biquad{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
}

// NewLowpass creates an RBJ lowpass biquad.
func NewLowpass(cutoff, sampleRate, q float32) *Biquad {
	if nyquist := sampleRate / 2; cutoff >= nyquist {
		cutoff = nyquist * 0.99
	}
	w0 := 2.0 * math.Pi * float64(cutoff) / float64(sampleRate)
	alpha := math.Sin(w0) / (2.0 * float64(q))
	cosw0 := math.Cos(w0)

	a0 := 1.0 + alpha
	return NewBiquad(
		float32((1.0-cosw0)/2.0/a0),
		float32((1.0-cosw0)/a0),
		float32((1.0-cosw0)/2.0/a0),
		float32(-2.0*cosw0/a0),
		float32((1.0-alpha)/a0),
	)
}

// Process processes one sample through the filter (Direct Form I).
func (b *Biquad) Process(input float32) float32 {
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	output = FlushDenormals(output)

	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// SoftClip saturates x smoothly into (-1, 1). Values well inside the range
// pass almost unchanged.
func SoftClip(x float32) float32 {
	switch {
	case x > 3:
		return 1
	case x < -3:
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// FlushDenormals converts denormal numbers to zero.
func FlushDenormals(x float32) float32 {
	return float32(dspcore.FlushDenormals(float64(x)))
}
