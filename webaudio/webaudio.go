//go:build js && wasm

// Package webaudio implements the oscy audio graph over the browser's Web
// Audio API.
package webaudio

import (
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-oscy/oscy"
)

// Context wraps an AudioContext (or the prefixed webkitAudioContext of older
// engines).
type Context struct {
	v    js.Value
	dest *node
}

var _ oscy.AudioContext = (*Context)(nil)

// NewContext creates a browser audio context. It returns oscy.ErrUnsupported
// when the page has no Web Audio support.
func NewContext() (*Context, error) {
	ctor := js.Global().Get("AudioContext")
	if !ctor.Truthy() {
		ctor = js.Global().Get("webkitAudioContext")
	}
	if !ctor.Truthy() {
		return nil, oscy.ErrUnsupported
	}
	v, err := construct(ctor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oscy.ErrUnsupported, err)
	}
	return &Context{v: v, dest: &node{v: v.Get("destination")}}, nil
}

// SampleRate returns the hardware rate in Hz.
func (c *Context) SampleRate() int {
	return c.v.Get("sampleRate").Int()
}

// Resume unlocks playback after a user gesture on autoplay-restricted pages.
func (c *Context) Resume() error {
	if !c.v.Get("resume").Truthy() {
		return nil
	}
	_, err := call(c.v, "resume")
	return err
}

// Close releases the context.
func (c *Context) Close() error {
	if !c.v.Get("close").Truthy() {
		return nil
	}
	_, err := call(c.v, "close")
	return err
}

func (c *Context) CreateOscillator() (oscy.Oscillator, error) {
	v, err := call(c.v, "createOscillator")
	if err != nil {
		return nil, err
	}
	return &oscillator{
		node:   node{v: v},
		freq:   newParam(v.Get("frequency")),
		detune: newParam(v.Get("detune")),
	}, nil
}

// CreateGain uses createGain, falling back to the legacy createGainNode.
func (c *Context) CreateGain() (oscy.GainNode, error) {
	method := "createGain"
	if !c.v.Get(method).Truthy() {
		method = "createGainNode"
	}
	v, err := call(c.v, method)
	if err != nil {
		return nil, err
	}
	return &gain{node: node{v: v}, gain: newParam(v.Get("gain"))}, nil
}

func (c *Context) Destination() oscy.Node {
	return c.dest
}

type jsNode interface {
	value() js.Value
}

type node struct {
	v js.Value
}

func (n *node) value() js.Value { return n.v }

func (n *node) Connect(dst oscy.Node) error {
	d, ok := dst.(jsNode)
	if !ok {
		return fmt.Errorf("webaudio: cannot connect to %T", dst)
	}
	_, err := call(n.v, "connect", d.value())
	return err
}

func (n *node) Disconnect() {
	call(n.v, "disconnect")
}

type param struct {
	v   js.Value
	def float64
}

func newParam(v js.Value) *param {
	p := &param{v: v}
	if d := v.Get("defaultValue"); d.Type() == js.TypeNumber {
		p.def = d.Float()
	} else {
		p.def = v.Get("value").Float()
	}
	return p
}

func (p *param) Value() float64        { return p.v.Get("value").Float() }
func (p *param) SetValue(v float64)    { p.v.Set("value", v) }
func (p *param) DefaultValue() float64 { return p.def }

type oscillator struct {
	node
	freq   *param
	detune *param
}

func (o *oscillator) Frequency() oscy.AudioParam { return o.freq }
func (o *oscillator) Detune() oscy.AudioParam    { return o.detune }

func (o *oscillator) SetType(w oscy.Waveform) {
	o.v.Set("type", w.String())
}

func (o *oscillator) Type() oscy.Waveform {
	w, err := oscy.ParseWaveform(o.v.Get("type").String())
	if err != nil {
		return oscy.Sine
	}
	return w
}

// Start falls back to the legacy noteOn of early implementations.
func (o *oscillator) Start() error {
	method := "start"
	if !o.v.Get(method).Truthy() {
		method = "noteOn"
	}
	_, err := call(o.v, method, 0)
	return err
}

func (o *oscillator) Stop() error {
	method := "stop"
	if !o.v.Get(method).Truthy() {
		method = "noteOff"
	}
	_, err := call(o.v, method, 0)
	return err
}

type gain struct {
	node
	gain *param
}

func (g *gain) Gain() oscy.AudioParam { return g.gain }

// call invokes a method and turns a thrown JS exception into an error.
func call(v js.Value, method string, args ...any) (res js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = jsError(method, r)
		}
	}()
	return v.Call(method, args...), nil
}

func construct(ctor js.Value) (res js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = jsError("new", r)
		}
	}()
	return ctor.New(), nil
}

func jsError(op string, r any) error {
	if e, ok := r.(js.Error); ok {
		return fmt.Errorf("webaudio: %s: %s", op, e.Error())
	}
	return fmt.Errorf("webaudio: %s: %v", op, r)
}
