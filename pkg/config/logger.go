package config

import (
	"fmt"
	"log"
	"os"
)

// Logger is the minimal logging capability every subsystem needs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NoOpLogger discards everything; used when debug is off.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...interface{}) {}
func (NoOpLogger) Info(string, ...interface{})  {}
func (NoOpLogger) Warn(string, ...interface{})  {}
func (NoOpLogger) Error(string, ...interface{}) {}

// StdLogger is a log.Logger-backed default implementation, used when debug
// is set.
type StdLogger struct {
	l *log.Logger
}

func NewStdLogger() *StdLogger {
	return &StdLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *StdLogger) logf(level, msg string, args ...interface{}) {
	s.l.Printf("%s %s", level, formatKV(msg, args))
}

func (s *StdLogger) Debug(msg string, args ...interface{}) { s.logf("DEBUG", msg, args...) }
func (s *StdLogger) Info(msg string, args ...interface{})  { s.logf("INFO", msg, args...) }
func (s *StdLogger) Warn(msg string, args ...interface{})  { s.logf("WARN", msg, args...) }
func (s *StdLogger) Error(msg string, args ...interface{}) { s.logf("ERROR", msg, args...) }

// formatKV renders the variadic key-value pairs as "msg key=value
// key2=value2", tolerating an odd argument count.
func formatKV(msg string, args []interface{}) string {
	out := msg
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			out += fmt.Sprintf(" %v=%v", args[i], args[i+1])
		} else {
			out += fmt.Sprintf(" %v", args[i])
		}
	}
	return out
}

// NewLogger returns a StdLogger when debug is set, else a NoOpLogger.
func NewLogger(debug bool) Logger {
	if debug {
		return NewStdLogger()
	}
	return NoOpLogger{}
}
