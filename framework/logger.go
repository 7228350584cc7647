package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used throughout the harness. *log.Logger satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of debug output retained by a CapturingLogger.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the debug output accumulated while one behavior was being judged.
type CapturedOutput []CapturedMessage

// CapturingLogger buffers messages so that they can be shown later, for instance only when
// the tester asked for debug output. It also forwards each message to an optional Logger.
type CapturingLogger struct {
	forward Logger
	output  []CapturedMessage
	lock    sync.Mutex
}

// NewCapturingLogger creates a CapturingLogger. If forward is non-nil, every message is also
// passed through to it immediately.
func NewCapturingLogger(forward Logger) *CapturingLogger {
	return &CapturingLogger{forward: forward}
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
	if l.forward != nil {
		l.forward.Printf(message, args...)
	}
}

// Output returns a copy of everything captured so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Reset discards the captured messages, returning what had been captured.
func (l *CapturingLogger) Reset() CapturedOutput {
	l.lock.Lock()
	ret := l.output
	l.output = nil
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

// PrefixLogger returns a Logger that adds a fixed prefix to every message before passing it on.
func PrefixLogger(target Logger, prefix string) Logger {
	if target == nil {
		return NullLogger()
	}
	return prefixLogger{target: target, prefix: prefix}
}

type prefixLogger struct {
	target Logger
	prefix string
}

func (p prefixLogger) Printf(message string, args ...interface{}) {
	p.target.Printf(p.prefix+message, args...)
}
