package oscy

import (
	"fmt"
	"time"
)

// Range is an explicit [Min, Max] parameter bound.
type Range struct {
	Min float64
	Max float64
}

// Config holds the instrument-wide options of a Multiplexer.
type Config struct {
	// Type is the waveform of every new voice.
	Type Waveform
	// Gain is the level a voice starts at.
	Gain float64
	// Effect names the easing curve of the release fade.
	Effect string
	// Release is the duration of the fade to silence after a contact ends.
	Release time.Duration
	// Tick is the fade sampling interval.
	Tick time.Duration

	Mapping Mapping
	// Offsets derives bounds left nil below from the generator defaults.
	Offsets        Offsets
	FrequencyRange *Range
	DetuneRange    *Range

	// MaxContacts caps how many contacts of one batch are read (0 = all).
	MaxContacts int
	// MaxVoices caps the number of addressable voices (0 = unlimited).
	MaxVoices int
	// SingleVoice plays one mouse-style voice at a time.
	SingleVoice bool
	// Ripple enables visual feedback notifications.
	Ripple bool
}

// NewDefaultConfig creates the default instrument configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Type:           Sine,
		Gain:           0.5,
		Effect:         "easeInOutBounce",
		Release:        1500 * time.Millisecond,
		Tick:           DefaultTick,
		Mapping:        DefaultMapping,
		Offsets:        DefaultOffsets,
		FrequencyRange: &Range{Min: 220, Max: 880},
		DetuneRange:    nil,
		MaxContacts:    0,
		MaxVoices:      0,
		SingleVoice:    false,
		Ripple:         true,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Type < Sine || c.Type > Triangle {
		return fmt.Errorf("invalid waveform %v", c.Type)
	}
	if c.Gain < 0 {
		return fmt.Errorf("gain must be >= 0")
	}
	if c.Release < 0 {
		return fmt.Errorf("release must be >= 0")
	}
	if c.Tick < 0 {
		return fmt.Errorf("tick must be >= 0")
	}
	for _, a := range []Axis{c.Mapping.Frequency, c.Mapping.Detune} {
		if a < AxisX || a > AxisCenterY {
			return fmt.Errorf("invalid axis %v", a)
		}
	}
	if c.MaxContacts < 0 {
		return fmt.Errorf("max_contacts must be >= 0")
	}
	if c.MaxVoices < 0 {
		return fmt.Errorf("max_voices must be >= 0")
	}
	return nil
}

func (c *Config) voiceOptions() VoiceOptions {
	p := Partial{}.WithType(c.Type).With(Gain, c.Gain)
	if c.FrequencyRange != nil {
		p = p.With(FrequencyMin, c.FrequencyRange.Min).With(FrequencyMax, c.FrequencyRange.Max)
	}
	if c.DetuneRange != nil {
		p = p.With(DetuneMin, c.DetuneRange.Min).With(DetuneMax, c.DetuneRange.Max)
	}
	offsets := c.Offsets
	return VoiceOptions{
		Params:  p,
		Offsets: &offsets,
		Tick:    c.Tick,
	}
}

func (c *Config) clone() Config {
	out := *c
	if c.FrequencyRange != nil {
		r := *c.FrequencyRange
		out.FrequencyRange = &r
	}
	if c.DetuneRange != nil {
		r := *c.DetuneRange
		out.DetuneRange = &r
	}
	return out
}
