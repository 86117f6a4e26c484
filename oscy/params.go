package oscy

import (
	"fmt"
	"strings"
)

// Waveform selects the tone generator's shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = [...]string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform maps a waveform name ("sine", "square", ...) to its value.
func ParseWaveform(s string) (Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return Sine, fmt.Errorf("unknown waveform %q", s)
}

// Param names one numeric voice parameter.
type Param int

const (
	Frequency Param = iota
	FrequencyMin
	FrequencyMax
	Detune
	DetuneMin
	DetuneMax
	Gain
	numParams
)

var paramNames = [...]string{"frequency", "frequencyMin", "frequencyMax", "detune", "detuneMin", "detuneMax", "gain"}

func (p Param) String() string {
	if p < 0 || p >= numParams {
		return fmt.Sprintf("param(%d)", int(p))
	}
	return paramNames[p]
}

// Params is the full parameter set of one voice. Frequency is in Hz, detune in
// cents and gain is a linear factor. Ranges are not enforced.
type Params struct {
	Type         Waveform
	Frequency    float64
	FrequencyMin float64
	FrequencyMax float64
	Detune       float64
	DetuneMin    float64
	DetuneMax    float64
	Gain         float64
}

// defaultParams is the immutable table every voice starts from.
var defaultParams = Params{Type: Sine}

// DefaultParams returns a copy of the default parameter table.
func DefaultParams() Params {
	return defaultParams
}

func (p *Params) field(key Param) *float64 {
	switch key {
	case Frequency:
		return &p.Frequency
	case FrequencyMin:
		return &p.FrequencyMin
	case FrequencyMax:
		return &p.FrequencyMax
	case Detune:
		return &p.Detune
	case DetuneMin:
		return &p.DetuneMin
	case DetuneMax:
		return &p.DetuneMax
	case Gain:
		return &p.Gain
	}
	return nil
}

// Get returns the value stored under key, or 0 for an unknown key.
func (p Params) Get(key Param) float64 {
	if f := p.field(key); f != nil {
		return *f
	}
	return 0
}

// Set stores value under key and reports whether the stored value changed.
func (p *Params) Set(key Param, value float64) bool {
	f := p.field(key)
	if f == nil || *f == value {
		return false
	}
	*f = value
	return true
}

// SetType stores the waveform and reports whether it changed.
func (p *Params) SetType(w Waveform) bool {
	if p.Type == w {
		return false
	}
	p.Type = w
	return true
}

// Partial is a sparse parameter update. Nil fields are left untouched.
type Partial struct {
	Type         *Waveform
	Frequency    *float64
	FrequencyMin *float64
	FrequencyMax *float64
	Detune       *float64
	DetuneMin    *float64
	DetuneMax    *float64
	Gain         *float64
}

func (p Partial) value(key Param) *float64 {
	switch key {
	case Frequency:
		return p.Frequency
	case FrequencyMin:
		return p.FrequencyMin
	case FrequencyMax:
		return p.FrequencyMax
	case Detune:
		return p.Detune
	case DetuneMin:
		return p.DetuneMin
	case DetuneMax:
		return p.DetuneMax
	case Gain:
		return p.Gain
	}
	return nil
}

// With returns a copy of p with key set to value.
func (p Partial) With(key Param, value float64) Partial {
	v := value
	switch key {
	case Frequency:
		p.Frequency = &v
	case FrequencyMin:
		p.FrequencyMin = &v
	case FrequencyMax:
		p.FrequencyMax = &v
	case Detune:
		p.Detune = &v
	case DetuneMin:
		p.DetuneMin = &v
	case DetuneMax:
		p.DetuneMax = &v
	case Gain:
		p.Gain = &v
	}
	return p
}

// WithType returns a copy of p with the waveform set.
func (p Partial) WithType(w Waveform) Partial {
	p.Type = &w
	return p
}

// Offsets is the policy deriving unset bounds from the generator's native
// defaults: min = default - Below, max = default + Above.
type Offsets struct {
	FrequencyBelow float64
	FrequencyAbove float64
	DetuneBelow    float64
	DetuneAbove    float64
}

var (
	// DefaultOffsets spans ±500 Hz and ±500 cents around the native defaults.
	DefaultOffsets = Offsets{FrequencyBelow: 500, FrequencyAbove: 500, DetuneBelow: 500, DetuneAbove: 500}
	// WideDetuneOffsets keeps ±500 Hz but biases detune to -3000/+1000 cents.
	WideDetuneOffsets = Offsets{FrequencyBelow: 500, FrequencyAbove: 500, DetuneBelow: 3000, DetuneAbove: 1000}
)
