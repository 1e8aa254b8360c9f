// This file defines the Log type and associated methods. Every synthesis
// run accumulates a Log with informational messages, warnings, and errors
// produced while compiling the specification, running the GR(1) fixpoint,
// and building the strategy automaton. If the log contains errors, it
// should be displayed to the caller before any verdict is trusted.

package diagnostics

import (
	"bytes"
	"fmt"
)

// Severity classifies a LogEntry. An ERROR indicates the run is still able
// to produce a verdict but something unexpected happened along the way; a
// FATAL_ERROR means synthesis could not continue (see strategy.InvariantViolation).
type Severity int

const (
	INFO Severity = iota
	WARNING
	ERROR
	FATAL_ERROR
)

func (s Severity) String() string {
	switch s {
	case INFO:
		return "info"
	case WARNING:
		return "warning"
	case ERROR:
		return "error"
	case FATAL_ERROR:
		return "fatal"
	default:
		return "unknown"
	}
}

// A LogEntry constitutes a single entry in a Log. Phase names the stage of
// the pipeline that produced the entry ("compile", "fixpoint", "strategy",
// ...); Round is the fixpoint/odometer iteration the entry pertains to, or
// -1 if not applicable.
type LogEntry struct {
	Severity Severity `json:"severity"`
	Phase    string   `json:"phase"`
	Round    int      `json:"round"`
	Message  string   `json:"message"`
}

func (entry *LogEntry) String() string {
	var buffer bytes.Buffer
	switch entry.Severity {
	case INFO:
		// No prefix
	case WARNING:
		buffer.WriteString("warning: ")
	case ERROR:
		buffer.WriteString("error: ")
	case FATAL_ERROR:
		buffer.WriteString("FATAL: ")
	}
	if entry.Phase != "" {
		buffer.WriteString(entry.Phase)
		if entry.Round >= 0 {
			fmt.Fprintf(&buffer, "[%d]", entry.Round)
		}
		buffer.WriteString(": ")
	}
	buffer.WriteString(entry.Message)
	return buffer.String()
}

// A Log accumulates messages produced over the course of one synthesis run.
type Log struct {
	Entries []LogEntry `json:"entries"`
}

// NewLog returns a new, empty Log.
func NewLog() *Log {
	return &Log{Entries: []LogEntry{}}
}

// Clear removes all entries from the log.
func (log *Log) Clear() {
	if log == nil {
		return
	}
	log.Entries = []LogEntry{}
}

// Log adds a message to the log at the given severity, not tied to any
// particular fixpoint round. A nil log is a valid no-op receiver, so
// callers that treat logging as optional never need a nil check.
func (log *Log) Log(severity Severity, phase, message string) {
	if log == nil {
		return
	}
	log.Entries = append(log.Entries, LogEntry{
		Severity: severity,
		Phase:    phase,
		Round:    -1,
		Message:  message,
	})
}

// LogRound adds a message associated with a specific fixpoint/odometer
// iteration, e.g. "fixpoint" round k of the middle mu-iteration.
func (log *Log) LogRound(severity Severity, phase string, round int, message string) {
	if log == nil {
		return
	}
	log.Entries = append(log.Entries, LogEntry{
		Severity: severity,
		Phase:    phase,
		Round:    round,
		Message:  message,
	})
}

// Infof logs a formatted informational message for the given phase.
func (log *Log) Infof(phase, format string, args ...interface{}) {
	log.Log(INFO, phase, fmt.Sprintf(format, args...))
}

func (log *Log) String() string {
	var buffer bytes.Buffer
	for _, entry := range log.Entries {
		buffer.WriteString(entry.String())
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// ContainsErrors returns true if the log contains at least one error or
// fatal error entry.
func (log *Log) ContainsErrors() bool {
	return log.contains(func(entry LogEntry) bool {
		return entry.Severity >= ERROR
	})
}

// ContainsFatal returns true if the log contains at least one fatal entry.
func (log *Log) ContainsFatal() bool {
	return log.contains(func(entry LogEntry) bool {
		return entry.Severity == FATAL_ERROR
	})
}

func (log *Log) contains(predicate func(LogEntry) bool) bool {
	for _, entry := range log.Entries {
		if predicate(entry) {
			return true
		}
	}
	return false
}
