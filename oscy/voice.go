package oscy

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTick is the sampling interval of fades.
const DefaultTick = 10 * time.Millisecond

// ErrDestructed is returned by operations on a voice that was torn down.
var ErrDestructed = errors.New("oscy: voice destructed")

// VoiceOptions configures NewVoice.
type VoiceOptions struct {
	// Params is merged over the defaults after bounds have been derived.
	Params Partial
	// Offsets derives unset bounds from the generator defaults. Nil means
	// DefaultOffsets.
	Offsets *Offsets
	// Autoplay starts the generator as soon as the voice is built.
	Autoplay bool
	// Tick is the fade sampling interval. Zero means DefaultTick.
	Tick time.Duration
	// OnChange, when set, observes every parameter change applied after
	// initialization, fades included.
	OnChange func(v *Voice, key Param, value float64)
}

// Voice is one oscillator → gain → destination chain. A voice is driven from
// a single goroutine; it is not safe for concurrent use.
type Voice struct {
	id          ContactID
	sched       Scheduler
	tick        time.Duration
	params      Params
	osc         Oscillator
	gain        GainNode
	initialized bool
	started     bool
	stopped     bool
	destructed  bool
	fade        *Fade
	onChange    func(*Voice, Param, float64)
}

// NewVoice allocates the audio units for one voice, wires them to the
// context's destination and pushes the full parameter set. Frequency and
// detune default to the generator's native values; their bounds are derived
// from those values with the configured Offsets unless opts.Params sets them.
func NewVoice(ac AudioContext, sched Scheduler, id ContactID, opts VoiceOptions) (*Voice, error) {
	if ac == nil {
		return nil, ErrUnsupported
	}
	if sched == nil {
		return nil, fmt.Errorf("oscy: voice %s: nil scheduler", id)
	}
	osc, err := ac.CreateOscillator()
	if err != nil {
		return nil, fmt.Errorf("oscy: voice %s: create oscillator: %w", id, err)
	}
	gain, err := ac.CreateGain()
	if err != nil {
		return nil, fmt.Errorf("oscy: voice %s: create gain: %w", id, err)
	}

	offsets := DefaultOffsets
	if opts.Offsets != nil {
		offsets = *opts.Offsets
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	v := &Voice{
		id:       id,
		sched:    sched,
		tick:     tick,
		params:   DefaultParams(),
		osc:      osc,
		gain:     gain,
		onChange: opts.OnChange,
	}

	f0 := osc.Frequency().DefaultValue()
	d0 := osc.Detune().DefaultValue()
	v.params.Frequency = f0
	v.params.FrequencyMin = f0 - offsets.FrequencyBelow
	v.params.FrequencyMax = f0 + offsets.FrequencyAbove
	v.params.Detune = d0
	v.params.DetuneMin = d0 - offsets.DetuneBelow
	v.params.DetuneMax = d0 + offsets.DetuneAbove
	v.Configure(opts.Params)

	if err := osc.Connect(gain); err != nil {
		return nil, fmt.Errorf("oscy: voice %s: connect oscillator: %w", id, err)
	}
	if err := gain.Connect(ac.Destination()); err != nil {
		osc.Disconnect()
		return nil, fmt.Errorf("oscy: voice %s: connect gain: %w", id, err)
	}

	v.updateAll()

	if opts.Autoplay {
		if err := v.Start(); err != nil {
			gain.Disconnect()
			osc.Disconnect()
			return nil, err
		}
	}
	v.initialized = true
	return v, nil
}

// ID returns the contact identity the voice was created for.
func (v *Voice) ID() ContactID { return v.id }

// Params returns a copy of the current parameters.
func (v *Voice) Params() Params { return v.params }

// Initialized reports whether the initial parameter push has completed.
func (v *Voice) Initialized() bool { return v.initialized }

// Fading reports whether a fade is in flight.
func (v *Voice) Fading() bool { return v.fade != nil }

// ActiveFade returns the in-flight fade, or nil.
func (v *Voice) ActiveFade() *Fade { return v.fade }

// Started reports whether Start succeeded.
func (v *Voice) Started() bool { return v.started }

// Destructed reports whether the voice has been torn down.
func (v *Voice) Destructed() bool { return v.destructed }

// Set stores one parameter and, once the voice is initialized, writes it to
// the audio units. Unchanged values are not written. It reports whether the
// value changed.
func (v *Voice) Set(key Param, value float64) bool {
	if v.destructed || !v.params.Set(key, value) {
		return false
	}
	if v.initialized {
		v.update(key)
		if v.onChange != nil {
			v.onChange(v, key, value)
		}
	}
	return true
}

// SetType switches the waveform. It reports whether the waveform changed.
func (v *Voice) SetType(w Waveform) bool {
	if v.destructed || !v.params.SetType(w) {
		return false
	}
	if v.initialized {
		v.osc.SetType(w)
	}
	return true
}

// Configure applies every non-nil field of p through Set/SetType in field
// order and returns how many values changed.
func (v *Voice) Configure(p Partial) int {
	changed := 0
	if p.Type != nil && v.SetType(*p.Type) {
		changed++
	}
	for k := Param(0); k < numParams; k++ {
		if value := p.value(k); value != nil && v.Set(k, *value) {
			changed++
		}
	}
	return changed
}

func (v *Voice) update(key Param) {
	switch key {
	case Frequency:
		v.osc.Frequency().SetValue(v.params.Frequency)
	case Detune:
		v.osc.Detune().SetValue(v.params.Detune)
	case Gain:
		v.gain.Gain().SetValue(v.params.Gain)
	}
}

func (v *Voice) updateAll() {
	v.osc.SetType(v.params.Type)
	for k := Param(0); k < numParams; k++ {
		v.update(k)
	}
}

// Start begins sound production. Calling Start twice is a caller error; the
// generator's fault is returned unchanged in meaning and the voice should be
// destructed.
func (v *Voice) Start() error {
	if v.destructed {
		return ErrDestructed
	}
	if err := v.osc.Start(); err != nil {
		return fmt.Errorf("oscy: voice %s: start: %w", v.id, err)
	}
	v.started = true
	return nil
}

// Stop ends sound production immediately.
func (v *Voice) Stop() error {
	if v.destructed {
		return ErrDestructed
	}
	if err := v.osc.Stop(); err != nil {
		return fmt.Errorf("oscy: voice %s: stop: %w", v.id, err)
	}
	v.stopped = true
	return nil
}

// Fade interpolates every key of targets from its current value to the target
// over d, sampled every tick, using the named easing curve (unknown names use
// DefaultEasing; d <= 0 uses DefaultFadeDuration). At most one fade runs per
// voice: while one is in flight the request is dropped and the running fade
// is returned with started=false. When the fade finishes its timer is
// cancelled, the voice's active fade is cleared, onComplete runs, and then
// the handle resolves.
func (v *Voice) Fade(targets map[Param]float64, easing string, d time.Duration, onComplete func(*Voice)) (f *Fade, started bool) {
	if v.fade != nil {
		return v.fade, false
	}
	if v.destructed {
		return nil, false
	}
	if d <= 0 {
		d = DefaultFadeDuration
	}
	f = newFade(v, targets, LookupEasing(easing), d, v.tick, onComplete)
	v.fade = f
	f.ticker = v.sched.Every(v.tick, f.tick)
	return f, true
}

// Destruct stops the generator if it is running and disconnects both units.
// An in-flight fade is discarded: its timer is cancelled and its handle
// resolves without running onComplete. The voice is unusable afterwards.
func (v *Voice) Destruct() error {
	if v.destructed {
		return ErrDestructed
	}
	if v.fade != nil {
		v.fade.finish(false)
	}
	var err error
	if v.started && !v.stopped {
		err = v.Stop()
	}
	v.gain.Disconnect()
	v.osc.Disconnect()
	v.destructed = true
	return err
}
