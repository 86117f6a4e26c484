package main

import (
	"testing"
	"time"

	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/oscy"
	"github.com/cwbudde/algo-oscy/softsynth"
)

func newTestSession(t *testing.T, presetJSON string) *session {
	t.Helper()
	ac, err := softsynth.NewContext(8000)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	s, err := newSession(ac, presetJSON, 400, 200, log.Discard())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	return s
}

func TestSessionTouchLifecycle(t *testing.T) {
	s := newTestSession(t, "")
	n, err := s.start(`[{"id": 4, "x": 400, "y": 100}, {"id": 5, "x": 0, "y": 0}]`)
	if n != 2 || err != nil {
		t.Fatalf("start: n=%d err=%v", n, err)
	}
	v, ok := s.mux.Voice(4)
	if !ok || v.Params().Frequency != 880 || v.Params().Detune != 0 {
		t.Fatalf("voice 4 not mapped: %+v", v)
	}
	if n, _ := s.move(`[{"id": 4, "x": 200, "y": 100}]`); n != 1 || v.Params().Frequency != 550 {
		t.Fatalf("move: n=%d freq=%f", n, v.Params().Frequency)
	}
	if n, _ := s.end(`[{"id": 4}]`, 1); n != 1 || s.mux.Len() != 1 {
		t.Fatalf("end: n=%d len=%d", n, s.mux.Len())
	}
	if n, _ := s.end(`[]`, 0); n != 1 || s.mux.Len() != 0 {
		t.Fatalf("reconcile: n=%d len=%d", n, s.mux.Len())
	}
	s.tick(2 * time.Second)
	if s.mux.Fading() != 0 {
		t.Fatalf("fades not finished after tick: %d", s.mux.Fading())
	}
}

func TestSessionPointerAndPreset(t *testing.T) {
	s := newTestSession(t, `{"base": "mouse"}`)
	if _, err := s.start(`[{"pointer": true, "x": 100, "y": 100}]`); err != nil {
		t.Fatalf("start: %v", err)
	}
	if ids := s.mux.IDs(); len(ids) != 1 || ids[0] != oscy.Pointer {
		t.Fatalf("IDs: %v", ids)
	}
	if s.close() != 1 {
		t.Fatalf("close should destruct the pointer voice")
	}
}

func TestSessionRejectsBadInput(t *testing.T) {
	s := newTestSession(t, "")
	if _, err := s.start(`{"id": 1}`); err == nil {
		t.Fatalf("expected error for non-array batch")
	}
	if _, err := s.start(`[{"id": -1, "x": 10, "y": 10}]`); err == nil {
		t.Fatalf("expected error for negative touch id")
	}
	if _, err := s.end(`[{"id": -3}]`, 0); err == nil {
		t.Fatalf("expected error for negative touch id on end")
	}
	if s.mux.Len() != 0 {
		t.Fatalf("rejected batch started voices: %v", s.mux.IDs())
	}
	if err := s.resize(0, 10); err == nil {
		t.Fatalf("expected error for empty panel")
	}
	ac, _ := softsynth.NewContext(8000)
	if _, err := newSession(ac, `{"gain": -1}`, 10, 10, log.Discard()); err == nil {
		t.Fatalf("expected preset error")
	}
}
