package oscy

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-oscy/internal/log"
)

// ErrDuplicateContact reports a start batch that named an identity twice, or
// an identity that already owns a live voice. The first voice is kept.
var ErrDuplicateContact = errors.New("oscy: duplicate contact identity")

// Multiplexer owns the mapping from contact identity to Voice. It allocates a
// voice when a contact starts, retargets it on moves and fades it out when the
// contact ends. Dispatch calls and the Scheduler must share one goroutine.
type Multiplexer struct {
	ac     AudioContext
	sched  Scheduler
	cfg    Config
	ripple Ripple
	logger *log.Logger

	// voices holds the addressable voices in start order.
	voices []*Voice
	// fading holds voices removed from voices whose release is still running.
	fading map[*Voice]struct{}
}

// NewMultiplexer creates an empty multiplexer. A nil AudioContext yields
// ErrUnsupported; a nil cfg uses NewDefaultConfig.
func NewMultiplexer(ac AudioContext, sched Scheduler, cfg *Config) (*Multiplexer, error) {
	if ac == nil {
		return nil, ErrUnsupported
	}
	if sched == nil {
		return nil, fmt.Errorf("oscy: nil scheduler")
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("oscy: config: %w", err)
	}
	return &Multiplexer{
		ac:     ac,
		sched:  sched,
		cfg:    cfg.clone(),
		logger: log.Discard(),
		fading: make(map[*Voice]struct{}),
	}, nil
}

// SetRipple installs the visual feedback collaborator.
func (m *Multiplexer) SetRipple(r Ripple) {
	m.ripple = r
}

// SetLogger installs a logger; lines are scoped "mux". Nil discards.
func (m *Multiplexer) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Discard()
	}
	m.logger = l.Named("mux")
}

// Config returns a copy of the active configuration.
func (m *Multiplexer) Config() Config {
	return m.cfg.clone()
}

// Len returns the number of addressable voices.
func (m *Multiplexer) Len() int {
	return len(m.voices)
}

// Fading returns the number of released voices whose fade is still running.
func (m *Multiplexer) Fading() int {
	return len(m.fading)
}

// IDs lists the addressable identities in start order.
func (m *Multiplexer) IDs() []ContactID {
	ids := make([]ContactID, len(m.voices))
	for i, v := range m.voices {
		ids[i] = v.id
	}
	return ids
}

// Voice returns the addressable voice for id.
func (m *Multiplexer) Voice(id ContactID) (*Voice, bool) {
	if i := m.index(id); i >= 0 {
		return m.voices[i], true
	}
	return nil, false
}

func (m *Multiplexer) index(id ContactID) int {
	for i, v := range m.voices {
		if v.id == id {
			return i
		}
	}
	return -1
}

// lookup resolves a move target. In single-voice mode the pointer identity
// falls back to the most recently started voice.
func (m *Multiplexer) lookup(id ContactID) *Voice {
	if i := m.index(id); i >= 0 {
		return m.voices[i]
	}
	if m.cfg.SingleVoice && id == Pointer && len(m.voices) > 0 {
		return m.voices[len(m.voices)-1]
	}
	return nil
}

func (m *Multiplexer) limit(contacts []Contact) []Contact {
	n := m.cfg.MaxContacts
	if m.cfg.SingleVoice {
		n = 1
	}
	if n > 0 && len(contacts) > n {
		return contacts[:n]
	}
	return contacts
}

// Start allocates and starts one voice per new contact, in batch order, and
// returns how many voices were started. Repeated identities are rejected and
// reported with ErrDuplicateContact; voice construction failures are joined
// into the returned error. Neither affects the other contacts of the batch.
func (m *Multiplexer) Start(contacts []Contact) (int, error) {
	var (
		errs    []error
		dups    []ContactID
		started int
	)
	seen := make(map[ContactID]bool, len(contacts))
	for _, c := range m.limit(contacts) {
		if seen[c.ID] {
			dups = append(dups, c.ID)
			continue
		}
		seen[c.ID] = true

		if m.cfg.SingleVoice {
			m.release(m.voices)
		} else if m.index(c.ID) >= 0 {
			dups = append(dups, c.ID)
			continue
		}
		if m.cfg.MaxVoices > 0 && len(m.voices) >= m.cfg.MaxVoices {
			m.logger.Warnf("voice limit %d reached, contact %s ignored", m.cfg.MaxVoices, c.ID)
			continue
		}

		v, err := m.newVoice(c)
		if err != nil {
			m.logger.Errorf("start contact %s: %v", c.ID, err)
			errs = append(errs, err)
			continue
		}
		m.voices = append(m.voices, v)
		started++
		m.logger.Debugf("voice %s started at (%.3f, %.3f)", c.ID, c.X, c.Y)
		m.showRipple(c)
	}
	if len(dups) > 0 {
		m.logger.Warnf("rejected duplicate contacts %v", dups)
		errs = append(errs, fmt.Errorf("%w: %v", ErrDuplicateContact, dups))
	}
	return started, errors.Join(errs...)
}

func (m *Multiplexer) newVoice(c Contact) (*Voice, error) {
	v, err := NewVoice(m.ac, m.sched, c.ID, m.cfg.voiceOptions())
	if err != nil {
		return nil, err
	}
	m.retarget(v, c)
	if err := v.Start(); err != nil {
		if derr := v.Destruct(); derr != nil {
			m.logger.Errorf("destruct voice %s: %v", c.ID, derr)
		}
		return nil, err
	}
	return v, nil
}

func (m *Multiplexer) retarget(v *Voice, c Contact) {
	frequency, detune := m.cfg.Mapping.Targets(c, v.params)
	v.Configure(Partial{}.With(Detune, detune).With(Frequency, frequency))
}

// Move retargets the voice of every known contact and returns how many voices
// were updated. Unknown identities are ignored.
func (m *Multiplexer) Move(contacts []Contact) int {
	moved := 0
	for _, c := range m.limit(contacts) {
		v := m.lookup(c.ID)
		if v == nil {
			continue
		}
		m.retarget(v, c)
		moved++
		m.showRipple(c)
	}
	return moved
}

// End releases the voices of the given identities and returns how many
// releases were initiated. Released voices stop being addressable at once;
// they fade to silence and are destructed when the fade completes. In
// single-voice mode the oldest voice is released when ids names the pointer
// or a live identity; other identities are ignored.
func (m *Multiplexer) End(ids []ContactID) int {
	if m.cfg.SingleVoice {
		if len(m.voices) == 0 || !m.ownsAny(ids) {
			return 0
		}
		return m.release(m.voices[:1])
	}
	want := make(map[ContactID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var hit []*Voice
	for _, v := range m.voices {
		if want[v.id] {
			hit = append(hit, v)
		}
	}
	return m.release(hit)
}

func (m *Multiplexer) ownsAny(ids []ContactID) bool {
	for _, id := range ids {
		if id == Pointer || m.index(id) >= 0 {
			return true
		}
	}
	return false
}

// ReconcileGarbage releases every remaining voice when the input layer
// reports no active touches, covering end events the platform dropped. It
// returns the number of voices released.
func (m *Multiplexer) ReconcileGarbage(noActiveTouches bool) int {
	if !noActiveTouches || len(m.voices) == 0 {
		return 0
	}
	n := m.release(m.voices)
	m.logger.Debugf("reconciled %d stale voices", n)
	return n
}

// release removes voices from the addressable set and starts their fade out.
func (m *Multiplexer) release(voices []*Voice) int {
	if len(voices) == 0 {
		return 0
	}
	list := append([]*Voice(nil), voices...)
	for _, v := range list {
		m.remove(v)
		m.fading[v] = struct{}{}

		// If a fade is already running the request is dropped and the voice
		// is torn down when that fade completes instead.
		f, _ := v.Fade(map[Param]float64{Gain: 0}, m.cfg.Effect, m.cfg.Release, nil)
		if f == nil {
			delete(m.fading, v)
			continue
		}
		f.andThen(m.dispose)
		m.logger.Debugf("voice %s released", v.id)
	}
	return len(list)
}

func (m *Multiplexer) dispose(v *Voice) {
	delete(m.fading, v)
	if v.Destructed() {
		return
	}
	if err := v.Destruct(); err != nil {
		m.logger.Errorf("destruct voice %s: %v", v.id, err)
	}
}

func (m *Multiplexer) remove(v *Voice) {
	for i, x := range m.voices {
		if x == v {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			return
		}
	}
}

func (m *Multiplexer) showRipple(c Contact) {
	if m.cfg.Ripple && m.ripple != nil {
		m.ripple.Show(c)
	}
}

// Close destructs every live and fading voice immediately and returns how
// many were torn down.
func (m *Multiplexer) Close() int {
	n := 0
	all := append([]*Voice(nil), m.voices...)
	for v := range m.fading {
		all = append(all, v)
	}
	m.voices = nil
	m.fading = make(map[*Voice]struct{})
	for _, v := range all {
		if v.Destructed() {
			continue
		}
		if err := v.Destruct(); err != nil {
			m.logger.Errorf("destruct voice %s: %v", v.id, err)
		}
		n++
	}
	return n
}
