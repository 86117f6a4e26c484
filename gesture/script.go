// Package gesture replays recorded touch input. A Script is a timed list of
// start, move and end batches in panel pixels; a Player normalizes each batch
// against the panel size and dispatches it to a Multiplexer while advancing
// virtual time.
package gesture

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-oscy/oscy"
)

// Kind is the phase of an input batch.
type Kind string

const (
	KindStart Kind = "start"
	KindMove  Kind = "move"
	KindEnd   Kind = "end"
)

// Touch is one contact of a batch in panel pixels. Pointer marks the mouse,
// which has no identity of its own.
type Touch struct {
	ID      int     `json:"id"`
	Pointer bool    `json:"pointer"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Event is one input batch.
type Event struct {
	AtMs    float64 `json:"at_ms"`
	Kind    Kind    `json:"type"`
	Touches []Touch `json:"touches"`
	// Active is the number of touches still down after the batch, as
	// reported by the platform. When it is zero after an end batch every
	// remaining voice is reconciled.
	Active *int `json:"active"`
}

// At returns the event time.
func (e Event) At() time.Duration {
	return time.Duration(e.AtMs * float64(time.Millisecond))
}

// Script is a recorded performance.
type Script struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// TailMs is extra time rendered after the last event so releases can
	// finish.
	TailMs float64 `json:"tail_ms"`
	Events []Event `json:"events"`
}

// Tail returns the extra time after the last event.
func (s *Script) Tail() time.Duration {
	return time.Duration(s.TailMs * float64(time.Millisecond))
}

// Duration returns the total length of the performance.
func (s *Script) Duration() time.Duration {
	var last time.Duration
	if n := len(s.Events); n > 0 {
		last = s.Events[n-1].At()
	}
	return last + s.Tail()
}

// Validate checks panel size, event order and batch kinds.
func (s *Script) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("panel size must be > 0, got %gx%g", s.Width, s.Height)
	}
	if s.TailMs < 0 {
		return fmt.Errorf("tail_ms must be >= 0")
	}
	prev := 0.0
	for i, e := range s.Events {
		if e.AtMs < prev {
			return fmt.Errorf("events[%d]: at_ms %g is before %g", i, e.AtMs, prev)
		}
		prev = e.AtMs
		switch e.Kind {
		case KindStart, KindMove, KindEnd:
		default:
			return fmt.Errorf("events[%d]: unknown type %q", i, e.Kind)
		}
		if e.Active != nil && *e.Active < 0 {
			return fmt.Errorf("events[%d]: active must be >= 0", i)
		}
		if err := ValidateTouches(e.Touches); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateTouches rejects negative ids on non-pointer touches. Negative
// identities are reserved for the pointer.
func ValidateTouches(touches []Touch) error {
	for i, t := range touches {
		if !t.Pointer && t.ID < 0 {
			return fmt.Errorf("touches[%d]: id must be >= 0, got %d", i, t.ID)
		}
	}
	return nil
}

// Contacts normalizes the touches of e against the panel.
func (s *Script) Contacts(e Event) []oscy.Contact {
	out := make([]oscy.Contact, len(e.Touches))
	for i, t := range e.Touches {
		out[i] = oscy.NewContact(t.contactID(), t.X, t.Y, s.Width, s.Height)
	}
	return out
}

// IDs returns the identities named by e.
func (e Event) IDs() []oscy.ContactID {
	out := make([]oscy.ContactID, len(e.Touches))
	for i, t := range e.Touches {
		out[i] = t.contactID()
	}
	return out
}

func (t Touch) contactID() oscy.ContactID {
	if t.Pointer {
		return oscy.Pointer
	}
	return oscy.ContactID(t.ID)
}

// Parse decodes and validates a script.
func Parse(b []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	for i := range s.Events {
		s.Events[i].Kind = Kind(strings.ToLower(strings.TrimSpace(string(s.Events[i].Kind))))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadJSON reads a script file.
func LoadJSON(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
