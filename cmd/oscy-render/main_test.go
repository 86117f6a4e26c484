package main

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-oscy/analysis"
	"github.com/cwbudde/algo-oscy/gesture"
	"github.com/cwbudde/algo-oscy/internal/log"
	"github.com/cwbudde/algo-oscy/internal/wavio"
	"github.com/cwbudde/algo-oscy/oscy"
)

func TestDemoScriptIsValid(t *testing.T) {
	s := demoScript()
	if err := s.Validate(); err != nil {
		t.Fatalf("demo script invalid: %v", err)
	}
	if s.Duration() != 3*time.Second {
		t.Fatalf("demo duration: got=%v want=3s", s.Duration())
	}
}

func TestRenderDemoFadesToSilence(t *testing.T) {
	const sr = 16000
	out, stats, err := render(context.Background(), oscy.NewDefaultConfig(), demoScript(), sr, log.Discard())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 3*sr {
		t.Fatalf("frames: got=%d want=%d", len(out), 3*sr)
	}
	if stats.Started != 2 || stats.Ended != 2 {
		t.Fatalf("stats: %+v", stats)
	}
	x := analysis.Float32To64(out)
	if p := analysis.Peak(x[:sr]); p < 0.3 {
		t.Fatalf("held section too quiet: peak=%f", p)
	}
	if p := analysis.Peak(x[len(x)-sr/10:]); p != 0 {
		t.Fatalf("tail not silent: peak=%f", p)
	}
}

func TestRenderHeldPitchFollowsMapping(t *testing.T) {
	const sr = 16000
	s := &gesture.Script{
		Width:  100,
		Height: 100,
		Events: []gesture.Event{
			{AtMs: 0, Kind: gesture.KindStart, Touches: []gesture.Touch{{ID: 3, X: 50, Y: 50}}},
			{AtMs: 1000, Kind: gesture.KindEnd, Touches: []gesture.Touch{{ID: 3}}},
		},
	}
	out, _, err := render(context.Background(), oscy.NewDefaultConfig(), s, sr, log.Discard())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, _, err := analysis.Fundamental(analysis.Float32To64(out[sr/10:]), sr)
	if err != nil {
		t.Fatalf("Fundamental: %v", err)
	}
	if math.Abs(f-550) > 3 {
		t.Fatalf("held pitch: got=%f want=550", f)
	}
}

func TestFramesFor(t *testing.T) {
	if got := framesFor(10*time.Millisecond, 44100); got != 441 {
		t.Fatalf("got=%d want=441", got)
	}
	if got := framesFor(time.Second/3, 48000); got != 15999 {
		t.Fatalf("got=%d want=15999", got)
	}
}

func TestMeasureFileReadsBackWrittenLevel(t *testing.T) {
	const sr = 16000
	s := &gesture.Script{
		Width:  100,
		Height: 100,
		Events: []gesture.Event{
			{AtMs: 0, Kind: gesture.KindStart, Touches: []gesture.Touch{{ID: 1, X: 50, Y: 50}}},
			{AtMs: 1000, Kind: gesture.KindEnd, Touches: []gesture.Touch{{ID: 1}}},
		},
	}
	out, _, err := render(context.Background(), oscy.NewDefaultConfig(), s, sr, log.Discard())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := wavio.WriteMonoWAV(path, out, sr); err != nil {
		t.Fatalf("WriteMonoWAV: %v", err)
	}
	m, err := measureFile(path)
	if err != nil {
		t.Fatalf("measureFile: %v", err)
	}
	want := analysis.Peak(analysis.Float32To64(out))
	if m.Frames != len(out) || m.SampleRate != sr {
		t.Fatalf("got frames=%d rate=%d want %d/%d", m.Frames, m.SampleRate, len(out), sr)
	}
	if math.Abs(m.Peak-want) > 1e-3 {
		t.Fatalf("peak: got=%f want=%f", m.Peak, want)
	}
	if math.Abs(m.FundamentalHz-550) > 3 {
		t.Fatalf("fundamental: got=%f want=550", m.FundamentalHz)
	}
}

func TestMeasureFileMissing(t *testing.T) {
	if _, err := measureFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
