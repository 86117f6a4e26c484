package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful %s", "now")
	l.Errorf("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	for _, want := range []string{"INFO: shown 2", "WARN: careful now", "ERROR: broken"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestLevelNoneSilencesEverything(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.SetLevel(LevelNone)
	l.Errorf("nope")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	if l.Level() != LevelNone {
		t.Fatalf("level mismatch: got=%v want=%v", l.Level(), LevelNone)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Debugf("x")
	l.Warnf("y")
}

func TestWarnLevelHidesInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Infof("chatty")
	l.Warnf("careful")
	if out := buf.String(); strings.Contains(out, "chatty") || !strings.Contains(out, "WARN: careful") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNamedScopesShareLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, LevelError)
	mux := root.Named("mux")
	mux.Named("voice").Errorf("lost %d", 3)
	mux.Infof("hidden")
	root.SetLevel(LevelInfo)
	mux.Infof("shown")

	want := "ERROR: mux.voice: lost 3\nINFO: mux: shown\n"
	if got := buf.String(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if mux.Level() != LevelInfo {
		t.Fatalf("level not shared: got=%v want=%v", mux.Level(), LevelInfo)
	}
	var nilLogger *Logger
	if nilLogger.Named("x") != nil || nilLogger.Level() != LevelNone {
		t.Fatalf("nil logger must stay nil and silent")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"none":    LevelNone,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q): got=%v err=%v want=%v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if got := LevelFromString("loud"); got != LevelInfo {
		t.Fatalf("LevelFromString fallback: got=%v want=%v", got, LevelInfo)
	}
	if got := Level(42).String(); got != "UNKNOWN" {
		t.Fatalf("String: got=%q want=UNKNOWN", got)
	}
}
