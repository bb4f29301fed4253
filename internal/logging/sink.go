package logging

import "log"

// #region sink

// Sink receives diagnostic events from the samplers. It is threaded through
// construction explicitly; the core never touches a process-wide logger.
type Sink interface {
	Eventf(tag, format string, args ...any)
}

// #endregion sink

// #region log-sink

// LogSink writes events through the standard logger as "[TAG] message".
type LogSink struct{}

// Eventf implements Sink.
func (LogSink) Eventf(tag, format string, args ...any) {
	log.Printf("["+tag+"] "+format, args...)
}

// #endregion log-sink

// #region nop-sink

// NopSink discards all events. Used by tests and quiet runs.
type NopSink struct{}

// Eventf implements Sink.
func (NopSink) Eventf(string, string, ...any) {}

// #endregion nop-sink
