// Package log provides the leveled, concurrency-safe logger used by the
// engine and model. Workers run on many goroutines at once; every line is
// funneled through a single writer goroutine so concurrent Info/Error calls
// never interleave mid-line.
package log

import (
	"fmt"
	"log"
	"os"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSuccess
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
 return "+"
	case LevelError:
 return "ERROR"
	case LevelWarning:
 return "WARNING"
	case LevelInfo:
 return "#"
	case LevelDebug:
 return "DEBUG"
	default:
 return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string (e.g. from profile.Profile) to a
// Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
 return LevelDebug
	case "info":
 return LevelInfo
	case "warning":
 return LevelWarning
	case "error":
 return LevelError
	default:
 return LevelInfo
	}
}

// Message is anything the logger can print, either as a human line or as a
// JSON blob for machine consumption.
type Message interface {
	fmt.Stringer
	JSON() string
}

// Logger is a leveled logger with a single background writer.
type Logger struct {
	stdoutCh chan string
	donech chan struct{}
	impl *log.Logger
	level Level
	json bool
}

// New creates a Logger writing to stdout at the given level. When json is
// true, every accepted message is printed as its JSON form instead of its
// String form.
func New(level Level, json bool) *Logger {
	l := &Logger{
 stdoutCh: make(chan string, 10000),
 donech: make(chan struct{}),
 impl: log.New(os.Stdout, "", 0),
 level: level,
 json: json,
	}
	go l.drain()
	return l
}

func (l *Logger) text(level Level, msg Message) string {
	switch level {
	case LevelError, LevelWarning:
 return fmt.Sprintf("%v %v", level, msg.String())
	default:
 return fmt.Sprintf(" %v %v", level, msg.String())
	}
}

func (l *Logger) printf(level Level, msg Message) {
	if level < l.level {
 return
	}
	if l.json {
 l.stdoutCh <- msg.JSON()
	} else {
 l.stdoutCh <- l.text(level, msg)
	}
}

func (l *Logger) Debug(msg Message) { l.printf(LevelDebug, msg) }
func (l *Logger) Info(msg Message) { l.printf(LevelInfo, msg) }
func (l *Logger) Success(msg Message) { l.printf(LevelSuccess, msg) }
func (l *Logger) Warning(msg Message) { l.printf(LevelWarning, msg) }
func (l *Logger) Error(msg Message) { l.printf(LevelError, msg) }

func (l *Logger) drain() {
	defer close(l.donech)
	for msg := range l.stdoutCh {
 l.impl.Println(msg)
	}
}

// Close flushes and stops the writer goroutine. Safe to call once.
func (l *Logger) Close() {
	close(l.stdoutCh)
	<-l.donech
}
