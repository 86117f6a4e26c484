package gesture

import (
	"context"
	"fmt"
	"time"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
)

// Target receives normalized input batches. *oscy.Multiplexer implements it.
type Target interface {
	Start(contacts []oscy.Contact) (int, error)
	Move(contacts []oscy.Contact) int
	End(ids []oscy.ContactID) int
	ReconcileGarbage(noActiveTouches bool) int
}

var _ Target = (*oscy.Multiplexer)(nil)

// Advancer moves virtual time forward. *oscy.Clock implements it.
type Advancer interface {
	Advance(d time.Duration)
}

// Stats summarizes a replay.
type Stats struct {
	Events     int
	Started    int
	Moved      int
	Ended      int
	Reconciled int
	Rejected   int
	Duration   time.Duration
}

// Player replays a Script against a Target.
type Player struct {
	Target Target
	Clock  Advancer
	// Step is the largest amount of time advanced at once. Zero means
	// oscy.DefaultTick.
	Step time.Duration
	// OnStep, when set, runs before each clock advance with the length of
	// the step. Renderers use it to produce audio for that slice of time.
	OnStep func(d time.Duration) error
	Logger *log.Logger
}

// Run replays s from time zero and returns what was dispatched. Start
// errors are logged and counted, not returned; only OnStep failures and ctx
// cancellation stop the replay.
func (p *Player) Run(ctx context.Context, s *Script) (Stats, error) {
	var st Stats
	if p.Target == nil || p.Clock == nil {
		return st, fmt.Errorf("gesture: player needs a target and a clock")
	}
	if err := s.Validate(); err != nil {
		return st, err
	}
	logger := p.Logger.Named("replay")
	if logger == nil {
		logger = log.Discard()
	}

	for _, e := range s.Events {
		if err := p.advance(ctx, &st, e.At()-st.Duration); err != nil {
			return st, err
		}
		st.Events++
		switch e.Kind {
		case KindStart:
			n, err := p.Target.Start(s.Contacts(e))
			st.Started += n
			if err != nil {
				st.Rejected += len(e.Touches) - n
				logger.Warnf("start at %v: %v", e.At(), err)
			}
		case KindMove:
			st.Moved += p.Target.Move(s.Contacts(e))
		case KindEnd:
			st.Ended += p.Target.End(e.IDs())
		}
		if e.Active != nil && *e.Active == 0 && e.Kind == KindEnd {
			st.Reconciled += p.Target.ReconcileGarbage(true)
		}
	}
	if err := p.advance(ctx, &st, s.Tail()); err != nil {
		return st, err
	}
	logger.Infof("replayed %d events over %v: started=%d moved=%d ended=%d reconciled=%d",
		st.Events, st.Duration, st.Started, st.Moved, st.Ended, st.Reconciled)
	return st, nil
}

func (p *Player) advance(ctx context.Context, st *Stats, d time.Duration) error {
	step := p.Step
	if step <= 0 {
		step = oscy.DefaultTick
	}
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := step
		if d < n {
			n = d
		}
		if p.OnStep != nil {
			if err := p.OnStep(n); err != nil {
				return err
			}
		}
		p.Clock.Advance(n)
		st.Duration += n
		d -= n
	}
	return nil
}
