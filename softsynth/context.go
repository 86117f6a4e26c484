// Package softsynth renders the oscy audio graph in software. A Context
// hands out oscillators and gain stages, mixes whatever is connected to its
// destination and exposes the result as float32 PCM, either pulled with
// Render or streamed as little-endian bytes through io.Reader.
package softsynth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-oscy/dsp"
	"github.com/cwbudde/algo-oscy/oscy"
)

var (
	// ErrAlreadyStarted is returned by a second Oscillator.Start.
	ErrAlreadyStarted = errors.New("softsynth: oscillator already started")
	// ErrNotStarted is returned by Oscillator.Stop before Start.
	ErrNotStarted = errors.New("softsynth: oscillator not started")
	// ErrInvalidNode is returned when connecting to a node this context
	// cannot route to.
	ErrInvalidNode = errors.New("softsynth: invalid connection target")
)

const (
	// DefaultFrequency is the native oscillator frequency in Hz.
	DefaultFrequency = 440.0
	// DefaultGain is the native level of a gain stage.
	DefaultGain = 1.0

	paramSmoothingSec = 0.002
	gainSmoothingSec  = 0.005
	toneCutoffHz      = 12000
)

// Options tunes a Context.
type Options struct {
	// SoftClip saturates the mix into (-1, 1) instead of hard clipping.
	SoftClip bool
	// Smoothing enables parameter glides on frequency, detune and gain.
	Smoothing bool
}

// Context is a software audio graph. All methods are safe for concurrent
// use: the control goroutine edits the graph while an audio driver pulls
// samples through Read.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	opts       Options
	oscs       []*Oscillator
	gains      []*Gain
	dest       *destination
	frames     int64
	scratch    []float32
}

var _ oscy.AudioContext = (*Context)(nil)

// NewContext creates a context rendering at sampleRate with smoothing and
// soft clipping enabled.
func NewContext(sampleRate int) (*Context, error) {
	return NewContextWithOptions(sampleRate, Options{SoftClip: true, Smoothing: true})
}

// NewContextWithOptions creates a context with explicit options.
func NewContextWithOptions(sampleRate int, opts Options) (*Context, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("softsynth: invalid sample rate %d", sampleRate)
	}
	c := &Context{sampleRate: sampleRate, opts: opts}
	c.dest = &destination{ctx: c}
	return c, nil
}

// SampleRate returns the rendering rate in Hz.
func (c *Context) SampleRate() int {
	return c.sampleRate
}

// Frames returns the number of frames rendered so far.
func (c *Context) Frames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Nodes returns how many oscillators and gain stages the context still
// tracks. Torn-down units are dropped on the next render.
func (c *Context) Nodes() (oscillators, gains int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.oscs), len(c.gains)
}

func (c *Context) smoothingTime(sec float64) float32 {
	if !c.opts.Smoothing {
		return 0
	}
	return float32(sec)
}

// CreateOscillator allocates a sine oscillator at DefaultFrequency.
func (c *Context) CreateOscillator() (oscy.Oscillator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o := &Oscillator{
		ctx:    c,
		typ:    oscy.Sine,
		freq:   c.newParam(DefaultFrequency, paramSmoothingSec),
		detune: c.newParam(0, paramSmoothingSec),
		tone:   dsp.NewLowpass(toneCutoffHz, float32(c.sampleRate), 0.707),
	}
	c.oscs = append(c.oscs, o)
	return o, nil
}

// CreateGain allocates a gain stage at DefaultGain.
func (c *Context) CreateGain() (oscy.GainNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := &Gain{ctx: c, gain: c.newParam(DefaultGain, gainSmoothingSec)}
	c.gains = append(c.gains, g)
	return g, nil
}

// Destination returns the mix bus.
func (c *Context) Destination() oscy.Node {
	return c.dest
}

// Render fills out with the next len(out) frames.
func (c *Context) Render(out []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render(out)
}

// RenderFrames renders n frames into a new buffer.
func (c *Context) RenderFrames(n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	c.Render(out)
	return out
}

// Read implements io.Reader for audio drivers consuming mono float32
// little-endian PCM. It always fills whole frames.
func (c *Context) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cap(c.scratch) < n {
		c.scratch = make([]float32, n)
	}
	buf := c.scratch[:n]
	c.render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

func (c *Context) render(out []float32) {
	c.prune()
	sr := float64(c.sampleRate)
	for i := range out {
		for _, o := range c.oscs {
			o.cur = o.next(sr)
		}
		var sum float32
		for _, o := range c.dest.inputs {
			sum += o.cur
		}
		for _, g := range c.gains {
			if !g.toDest {
				g.gain.next()
				continue
			}
			var in float32
			for _, o := range g.inputs {
				in += o.cur
			}
			sum += in * g.gain.next()
		}
		if c.opts.SoftClip {
			sum = dsp.SoftClip(sum)
		} else if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		out[i] = dsp.FlushDenormals(sum)
	}
	c.frames += int64(len(out))
}

// prune drops units that were disconnected and can no longer sound.
func (c *Context) prune() {
	oscs := c.oscs[:0]
	for _, o := range c.oscs {
		if o.disposed && len(o.outs) == 0 {
			continue
		}
		oscs = append(oscs, o)
	}
	for i := len(oscs); i < len(c.oscs); i++ {
		c.oscs[i] = nil
	}
	c.oscs = oscs

	gains := c.gains[:0]
	for _, g := range c.gains {
		if g.disposed && !g.toDest && len(g.inputs) == 0 {
			continue
		}
		gains = append(gains, g)
	}
	for i := len(gains); i < len(c.gains); i++ {
		c.gains[i] = nil
	}
	c.gains = gains
}

// destination is the context's mix bus. It has no outputs.
type destination struct {
	ctx    *Context
	inputs []*Oscillator
}

func (d *destination) Connect(oscy.Node) error {
	return fmt.Errorf("%w: destination has no outputs", ErrInvalidNode)
}

func (d *destination) Disconnect() {}

func removeOsc(list []*Oscillator, o *Oscillator) []*Oscillator {
	for i, x := range list {
		if x == o {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
