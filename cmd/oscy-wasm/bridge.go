package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cwbudde/algo-oscy/gesture"
	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/preset"
)

// session is the state behind the exported JS functions. Touch batches come
// in as JSON arrays of {id, x, y, pointer} in panel pixels.
type session struct {
	clock  *oscy.Clock
	mux    *oscy.Multiplexer
	panel  gesture.Script
	logger *log.Logger
}

func newSession(ac oscy.AudioContext, presetJSON string, width, height float64, logger *log.Logger) (*session, error) {
	cfg := oscy.NewDefaultConfig()
	if presetJSON != "" {
		var err error
		if cfg, err = preset.Parse([]byte(presetJSON)); err != nil {
			return nil, fmt.Errorf("preset: %w", err)
		}
	}
	clock := oscy.NewClock()
	m, err := oscy.NewMultiplexer(ac, clock, cfg)
	if err != nil {
		return nil, err
	}
	m.SetLogger(logger)
	s := &session{clock: clock, mux: m, logger: logger}
	if err := s.resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("panel size must be > 0, got %gx%g", width, height)
	}
	s.panel.Width = width
	s.panel.Height = height
	return nil
}

func (s *session) batch(touchesJSON string) (gesture.Event, error) {
	var e gesture.Event
	if err := json.Unmarshal([]byte(touchesJSON), &e.Touches); err != nil {
		return e, fmt.Errorf("touches: %w", err)
	}
	if err := gesture.ValidateTouches(e.Touches); err != nil {
		return e, err
	}
	return e, nil
}

func (s *session) start(touchesJSON string) (int, error) {
	e, err := s.batch(touchesJSON)
	if err != nil {
		return 0, err
	}
	return s.mux.Start(s.panel.Contacts(e))
}

func (s *session) move(touchesJSON string) (int, error) {
	e, err := s.batch(touchesJSON)
	if err != nil {
		return 0, err
	}
	return s.mux.Move(s.panel.Contacts(e)), nil
}

// end releases the named touches; active is the number of touches the
// browser still reports as down.
func (s *session) end(touchesJSON string, active int) (int, error) {
	e, err := s.batch(touchesJSON)
	if err != nil {
		return 0, err
	}
	n := s.mux.End(e.IDs())
	if active == 0 {
		n += s.mux.ReconcileGarbage(true)
	}
	return n, nil
}

func (s *session) tick(elapsed time.Duration) {
	s.clock.Advance(elapsed)
}

func (s *session) close() int {
	return s.mux.Close()
}
