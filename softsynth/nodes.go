package softsynth

import (
	"fmt"
	"math"

	approx "github.com/cwbudde/algo-approx"

	"github.com/cwbudde/algo-oscy/dsp"
	"github.com/cwbudde/algo-oscy/oscy"
)

// param is an oscy.AudioParam whose rendered value glides towards the last
// value written.
type param struct {
	ctx    *Context
	value  float64
	def    float64
	smooth *dsp.Smoother
}

func (c *Context) newParam(def float64, smoothingSec float64) *param {
	return &param{
		ctx:    c,
		value:  def,
		def:    def,
		smooth: dsp.NewSmoother(c.smoothingTime(smoothingSec), float32(c.sampleRate), float32(def)),
	}
}

func (p *param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.value
}

func (p *param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.value = v
	p.smooth.SetTarget(float32(v))
}

func (p *param) DefaultValue() float64 {
	return p.def
}

func (p *param) next() float32 {
	return p.smooth.Next()
}

// Oscillator is a phase-accumulator tone generator.
type Oscillator struct {
	ctx      *Context
	typ      oscy.Waveform
	freq     *param
	detune   *param
	tone     *dsp.Biquad
	phase    float64
	started  bool
	stopped  bool
	disposed bool
	outs     []oscy.Node
	cur      float32
}

var _ oscy.Oscillator = (*Oscillator)(nil)

func (o *Oscillator) Frequency() oscy.AudioParam { return o.freq }
func (o *Oscillator) Detune() oscy.AudioParam    { return o.detune }

func (o *Oscillator) Type() oscy.Waveform {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	return o.typ
}

func (o *Oscillator) SetType(w oscy.Waveform) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if w != o.typ {
		o.tone.Reset()
	}
	o.typ = w
}

// Start begins playback. An oscillator starts at most once.
func (o *Oscillator) Start() error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if o.started {
		return ErrAlreadyStarted
	}
	o.started = true
	return nil
}

// Stop silences the oscillator for good.
func (o *Oscillator) Stop() error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if !o.started {
		return ErrNotStarted
	}
	o.stopped = true
	return nil
}

// Connect routes the oscillator into a gain stage or the destination of the
// same context.
func (o *Oscillator) Connect(dst oscy.Node) error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	switch d := dst.(type) {
	case *Gain:
		if d.ctx != o.ctx {
			return fmt.Errorf("%w: gain of another context", ErrInvalidNode)
		}
		d.inputs = append(d.inputs, o)
	case *destination:
		if d.ctx != o.ctx {
			return fmt.Errorf("%w: destination of another context", ErrInvalidNode)
		}
		d.inputs = append(d.inputs, o)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidNode, dst)
	}
	o.outs = append(o.outs, dst)
	return nil
}

func (o *Oscillator) Disconnect() {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	for _, dst := range o.outs {
		switch d := dst.(type) {
		case *Gain:
			d.inputs = removeOsc(d.inputs, o)
		case *destination:
			d.inputs = removeOsc(d.inputs, o)
		}
	}
	o.outs = nil
	o.disposed = true
}

func (o *Oscillator) next(sampleRate float64) float32 {
	f := o.freq.next()
	cents := o.detune.next()
	if !o.started || o.stopped {
		return 0
	}
	hz := float64(f * centsRatio(cents))
	_, o.phase = math.Modf(o.phase + hz/sampleRate)
	if o.phase < 0 {
		o.phase++
	}

	var s float32
	switch o.typ {
	case oscy.Square:
		s = 1
		if o.phase >= 0.5 {
			s = -1
		}
	case oscy.Sawtooth:
		s = float32(2*o.phase - 1)
	case oscy.Triangle:
		t := o.phase + 0.25
		if t >= 1 {
			t--
		}
		s = float32(1 - 4*math.Abs(t-0.5))
	default:
		return float32(math.Sin(2 * math.Pi * o.phase))
	}
	return o.tone.Process(s)
}

// centsRatio converts a detune in cents to a frequency ratio.
func centsRatio(cents float32) float32 {
	if cents == 0 {
		return 1
	}
	const ln2 = 0.69314718055994530942
	return approx.FastExp(cents / 1200 * ln2)
}

// Gain scales the sum of its inputs.
type Gain struct {
	ctx      *Context
	gain     *param
	inputs   []*Oscillator
	toDest   bool
	disposed bool
}

var _ oscy.GainNode = (*Gain)(nil)

func (g *Gain) Gain() oscy.AudioParam { return g.gain }

// Connect routes the gain stage into the destination. Chaining gain stages
// is not supported.
func (g *Gain) Connect(dst oscy.Node) error {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	d, ok := dst.(*destination)
	if !ok || d.ctx != g.ctx {
		return fmt.Errorf("%w: gain stages feed the destination only", ErrInvalidNode)
	}
	g.toDest = true
	return nil
}

func (g *Gain) Disconnect() {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()
	g.toDest = false
	g.disposed = true
}
