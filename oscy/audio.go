package oscy

import "errors"

// ErrUnsupported is returned when no audio subsystem is available. It is
// fatal at session start; no voice can be built without one.
var ErrUnsupported = errors.New("oscy: audio context is not supported")

// AudioContext is the platform audio graph a voice is built from. Each voice
// owns one oscillator feeding one gain stage feeding Destination.
type AudioContext interface {
	CreateOscillator() (Oscillator, error)
	CreateGain() (GainNode, error)
	Destination() Node
}

// Node is a vertex of the audio graph.
type Node interface {
	Connect(dst Node) error
	// Disconnect removes every outgoing connection.
	Disconnect()
}

// AudioParam is a mutable unit parameter that knows its native default.
type AudioParam interface {
	Value() float64
	SetValue(v float64)
	DefaultValue() float64
}

// Oscillator is the tone generator. Start may be called once; a second call
// is a fault of the unit and is reported as an error.
type Oscillator interface {
	Node
	Frequency() AudioParam
	Detune() AudioParam
	SetType(w Waveform)
	Type() Waveform
	Start() error
	Stop() error
}

// GainNode is the level stage between generator and output.
type GainNode interface {
	Node
	Gain() AudioParam
}

// Ripple receives visual feedback requests. Show must not block.
type Ripple interface {
	Show(c Contact)
}

// RippleFunc adapts a function to Ripple.
type RippleFunc func(c Contact)

func (f RippleFunc) Show(c Contact) { f(c) }
