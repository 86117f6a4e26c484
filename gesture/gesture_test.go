package gesture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/softsynth"
)

const twoFingerScript = `{
  "width": 800,
  "height": 400,
  "tail_ms": 1600,
  "events": [
    {"at_ms": 0, "type": "start", "touches": [{"id": 1, "x": 0, "y": 200}]},
    {"at_ms": 100, "type": "start", "touches": [{"id": 2, "x": 800, "y": 0}]},
    {"at_ms": 250, "type": "move", "touches": [{"id": 1, "x": 400, "y": 200}, {"id": 9, "x": 1, "y": 1}]},
    {"at_ms": 500, "type": "END", "touches": [{"id": 1}], "active": 1},
    {"at_ms": 600, "type": "end", "touches": [], "active": 0}
  ]
}`

type call struct {
	kind     Kind
	at       time.Duration
	contacts []oscy.Contact
	ids      []oscy.ContactID
}

type recorder struct {
	clock *oscy.Clock
	calls []call
}

func (r *recorder) Start(c []oscy.Contact) (int, error) {
	r.calls = append(r.calls, call{kind: KindStart, at: r.clock.Now(), contacts: c})
	return len(c), nil
}

func (r *recorder) Move(c []oscy.Contact) int {
	r.calls = append(r.calls, call{kind: KindMove, at: r.clock.Now(), contacts: c})
	return len(c)
}

func (r *recorder) End(ids []oscy.ContactID) int {
	r.calls = append(r.calls, call{kind: KindEnd, at: r.clock.Now(), ids: ids})
	return len(ids)
}

func (r *recorder) ReconcileGarbage(noActive bool) int {
	r.calls = append(r.calls, call{kind: "reconcile", at: r.clock.Now()})
	return 0
}

func TestParseNormalizesKinds(t *testing.T) {
	s, err := Parse([]byte(twoFingerScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Events[3].Kind != KindEnd {
		t.Fatalf("kind not normalized: %q", s.Events[3].Kind)
	}
	if got := s.Duration(); got != 2200*time.Millisecond {
		t.Fatalf("Duration: got=%v want=2.2s", got)
	}
	c := s.Contacts(s.Events[1])
	if len(c) != 1 || c[0].ID != 2 || c[0].X != 1 || c[0].Y != 0 {
		t.Fatalf("contact normalization: %+v", c)
	}
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	cases := map[string]string{
		"panel":     `{"width": 0, "height": 100}`,
		"order":     `{"width": 1, "height": 1, "events": [{"at_ms": 5, "type": "start"}, {"at_ms": 1, "type": "end"}]}`,
		"kind":      `{"width": 1, "height": 1, "events": [{"at_ms": 0, "type": "tap"}]}`,
		"active":    `{"width": 1, "height": 1, "events": [{"at_ms": 0, "type": "end", "active": -1}]}`,
		"tail":      `{"width": 1, "height": 1, "tail_ms": -1}`,
		"touch id":  `{"width": 1, "height": 1, "events": [{"at_ms": 0, "type": "start", "touches": [{"id": -1, "x": 0, "y": 0}]}]}`,
		"malformed": `{"width": }`,
	}
	for name, content := range cases {
		if _, err := Parse([]byte(content)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestValidateTouches(t *testing.T) {
	if err := ValidateTouches([]Touch{{ID: 0}, {ID: 7}, {ID: -1, Pointer: true}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTouches([]Touch{{ID: 2}, {ID: -1}}); err == nil {
		t.Fatalf("expected error for negative touch id")
	}
}

func TestPointerTouchUsesNullIdentity(t *testing.T) {
	s, err := Parse([]byte(`{"width": 100, "height": 100, "events": [{"at_ms": 0, "type": "start", "touches": [{"pointer": true, "x": 50, "y": 50}]}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ids := s.Events[0].IDs(); len(ids) != 1 || ids[0] != oscy.Pointer {
		t.Fatalf("IDs: got=%v want=[%v]", ids, oscy.Pointer)
	}
}

func TestPlayerDispatchesAtEventTimes(t *testing.T) {
	s, _ := Parse([]byte(twoFingerScript))
	clock := oscy.NewClock()
	rec := &recorder{clock: clock}
	var rendered time.Duration
	p := &Player{Target: rec, Clock: clock, OnStep: func(d time.Duration) error {
		if d > oscy.DefaultTick {
			t.Fatalf("step too large: %v", d)
		}
		rendered += d
		return nil
	}}

	st, err := p.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantKinds := []Kind{KindStart, KindStart, KindMove, KindEnd, KindEnd, "reconcile"}
	wantAt := []time.Duration{0, 100, 250, 500, 600, 600}
	if len(rec.calls) != len(wantKinds) {
		t.Fatalf("calls: got=%d want=%d", len(rec.calls), len(wantKinds))
	}
	for i, c := range rec.calls {
		if c.kind != wantKinds[i] || c.at != wantAt[i]*time.Millisecond {
			t.Fatalf("call %d: got=%s@%v want=%s@%v", i, c.kind, c.at, wantKinds[i], wantAt[i]*time.Millisecond)
		}
	}
	if st.Events != 5 || st.Started != 2 || st.Moved != 2 || st.Ended != 1 {
		t.Fatalf("stats: %+v", st)
	}
	if st.Duration != 2200*time.Millisecond || rendered != st.Duration || clock.Now() != st.Duration {
		t.Fatalf("time mismatch: stats=%v rendered=%v clock=%v", st.Duration, rendered, clock.Now())
	}
}

func TestPlayerStopsOnStepError(t *testing.T) {
	s, _ := Parse([]byte(twoFingerScript))
	clock := oscy.NewClock()
	boom := errors.New("disk full")
	p := &Player{Target: &recorder{clock: clock}, Clock: clock, OnStep: func(time.Duration) error { return boom }}
	if _, err := p.Run(context.Background(), s); !errors.Is(err, boom) {
		t.Fatalf("got=%v want=%v", err, boom)
	}
}

func TestPlayerHonoursCancellation(t *testing.T) {
	s, _ := Parse([]byte(twoFingerScript))
	clock := oscy.NewClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Player{Target: &recorder{clock: clock}, Clock: clock}
	if _, err := p.Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("got=%v want=%v", err, context.Canceled)
	}
}

func TestPlayerRequiresTargetAndClock(t *testing.T) {
	s, _ := Parse([]byte(twoFingerScript))
	if _, err := (&Player{}).Run(context.Background(), s); err == nil {
		t.Fatalf("expected error without target and clock")
	}
}

func TestReplayThroughMultiplexer(t *testing.T) {
	s, _ := Parse([]byte(twoFingerScript))
	ac, err := softsynth.NewContext(8000)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	clock := oscy.NewClock()
	m, err := oscy.NewMultiplexer(ac, clock, nil)
	if err != nil {
		t.Fatalf("NewMultiplexer: %v", err)
	}
	var frames int
	p := &Player{Target: m, Clock: clock, OnStep: func(d time.Duration) error {
		n := int(int64(ac.SampleRate()) * int64(d) / int64(time.Second))
		frames += len(ac.RenderFrames(n))
		return nil
	}}
	st, err := p.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Started != 2 || st.Moved != 1 || st.Ended != 1 || st.Reconciled != 1 {
		t.Fatalf("stats: %+v", st)
	}
	if m.Len() != 0 || m.Fading() != 0 {
		t.Fatalf("voices left after replay: len=%d fading=%d", m.Len(), m.Fading())
	}
	if frames != 2200*8 {
		t.Fatalf("frames: got=%d want=%d", frames, 2200*8)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.json")
	if err := os.WriteFile(path, []byte(twoFingerScript), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(s.Events) != 5 || s.Width != 800 {
		t.Fatalf("script: %+v", s)
	}
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
