// Package log is the leveled logger shared by the instrument engine and its
// commands. Lines are plain text, "LEVEL: [scope: ]message", one per call.
// A nil *Logger is valid and drops everything, so components can hold one
// without checking.
package log

import (
	"fmt"
	"io"
	"log"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelNone:  "NONE",
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name, case-insensitively, to its Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromString is ParseLevel for callers with no way to report an error;
// unknown names give LevelInfo.
func LevelFromString(s string) Level {
	l, _ := ParseLevel(s)
	return l
}

type Logger struct {
	out   *log.Logger
	level *Level
	scope string
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{out: log.New(out, "", 0), level: &level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelNone)
}

// Named returns a logger that tags its lines with scope. It shares the
// writer and the level with l, so SetLevel on either applies to both.
func (l *Logger) Named(scope string) *Logger {
	if l == nil {
		return nil
	}
	if l.scope != "" {
		scope = l.scope + "." + scope
	}
	return &Logger{out: l.out, level: l.level, scope: scope}
}

func (l *Logger) logf(level Level, format string, v []interface{}) {
	if l == nil || level < *l.level {
		return
	}
	prefix := levelNames[level] + ": "
	if l.scope != "" {
		prefix += l.scope + ": "
	}
	l.out.Printf(prefix+format, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v) }

func (l *Logger) SetLevel(level Level) {
	if l != nil {
		*l.level = level
	}
}

func (l *Logger) Level() Level {
	if l == nil {
		return LevelNone
	}
	return *l.level
}
