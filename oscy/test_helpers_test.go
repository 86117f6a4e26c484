package oscy

import (
	"errors"
	"math"
)

type fakeParam struct {
	value  float64
	def    float64
	writes int
}

func newFakeParam(def float64) *fakeParam {
	return &fakeParam{value: def, def: def}
}

func (p *fakeParam) Value() float64        { return p.value }
func (p *fakeParam) DefaultValue() float64 { return p.def }
func (p *fakeParam) SetValue(v float64) {
	p.value = v
	p.writes++
}

type fakeNode struct {
	outs        []Node
	disconnects int
}

func (n *fakeNode) Connect(dst Node) error {
	n.outs = append(n.outs, dst)
	return nil
}

func (n *fakeNode) Disconnect() {
	n.outs = nil
	n.disconnects++
}

type fakeOsc struct {
	fakeNode
	freq       *fakeParam
	detune     *fakeParam
	typ        Waveform
	typeWrites int
	starts     int
	stops      int
}

func (o *fakeOsc) Frequency() AudioParam { return o.freq }
func (o *fakeOsc) Detune() AudioParam    { return o.detune }
func (o *fakeOsc) Type() Waveform        { return o.typ }
func (o *fakeOsc) SetType(w Waveform) {
	o.typ = w
	o.typeWrites++
}

func (o *fakeOsc) Start() error {
	o.starts++
	if o.starts > 1 {
		return errors.New("fake: oscillator already started")
	}
	return nil
}

func (o *fakeOsc) Stop() error {
	if o.starts == 0 {
		return errors.New("fake: oscillator not started")
	}
	o.stops++
	return nil
}

func (o *fakeOsc) running() bool { return o.starts > 0 && o.stops == 0 }

type fakeGain struct {
	fakeNode
	gain *fakeParam
}

func (g *fakeGain) Gain() AudioParam { return g.gain }

// fakeContext records every unit it hands out. failOsc makes the oscillator
// with that 1-based creation index fail.
type fakeContext struct {
	oscs    []*fakeOsc
	gains   []*fakeGain
	dest    fakeNode
	failOsc int
	created int
}

func newFakeContext() *fakeContext {
	return &fakeContext{}
}

func (c *fakeContext) CreateOscillator() (Oscillator, error) {
	c.created++
	if c.failOsc > 0 && c.created == c.failOsc {
		return nil, errors.New("fake: oscillator unavailable")
	}
	o := &fakeOsc{freq: newFakeParam(440), detune: newFakeParam(0)}
	c.oscs = append(c.oscs, o)
	return o, nil
}

func (c *fakeContext) CreateGain() (GainNode, error) {
	g := &fakeGain{gain: newFakeParam(1)}
	c.gains = append(c.gains, g)
	return g, nil
}

func (c *fakeContext) Destination() Node { return &c.dest }

func (c *fakeContext) lastOsc() *fakeOsc   { return c.oscs[len(c.oscs)-1] }
func (c *fakeContext) lastGain() *fakeGain { return c.gains[len(c.gains)-1] }

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func contactAt(id ContactID, x, y float64) Contact {
	return Contact{ID: id, OffsetX: x * 100, OffsetY: y * 100, X: x, Y: y}
}
