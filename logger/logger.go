// This file is part of thumbiss.
//
// thumbiss is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// thumbiss is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with thumbiss.  If not, see <https://www.gnu.org/licenses/>.

// Package logger implements a small ring-buffered event log used throughout
// the simulator. Entries are tagged with a short topic and carry an
// arbitrary detail value (error, fmt.Stringer, or anything %v can render).
//
// The package exists instead of reaching for a third-party structured
// logger because nothing in thumbiss needs levels, sinks, or structured
// fields beyond "tag: detail" — just a bounded history a CLI or debugger can
// dump on request.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Permission allows a caller to suppress logging based on some external
// condition (eg. "don't log PPB register noise unless verbose mode is on").
// The zero value of any type not implementing Permission is always allowed.
type Permission interface {
	AllowLogging() bool
}

type allowPermission struct{}

func (allowPermission) AllowLogging() bool { return true }

// Allow is the Permission value that always allows logging.
var Allow Permission = allowPermission{}

func permits(p Permission) bool {
	if p == nil {
		return true
	}
	return p.AllowLogging()
}

type entry struct {
	tag    string
	detail string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s\n", e.tag, e.detail)
}

// Logger is a bounded, thread-safe log of tag/detail entries.
type Logger struct {
	mu      sync.Mutex
	entries []entry
	cap     int
}

// NewLogger creates a Logger that retains at most cap entries, discarding
// the oldest when full.
func NewLogger(cap int) *Logger {
	if cap <= 0 {
		cap = 1
	}
	return &Logger{cap: cap}
}

func renderDetail(detail interface{}) string {
	switch v := detail.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Log adds a new entry if permission allows it.
func (l *Logger) Log(permission Permission, tag string, detail interface{}) {
	if !permits(permission) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{tag: tag, detail: renderDetail(detail)})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

// Logf is Log with the detail built from a format string.
func (l *Logger) Logf(permission Permission, tag string, format string, args ...interface{}) {
	l.Log(permission, tag, fmt.Sprintf(format, args...))
}

// Clear empties the log.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Write renders every retained entry, oldest first.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var s strings.Builder
	for _, e := range l.entries {
		s.WriteString(e.String())
	}
	io.WriteString(w, s.String())
}

// Tail renders at most n of the most recently retained entries, oldest of
// that subset first. A request for more than are available is not an error.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	var s strings.Builder
	for _, e := range l.entries[len(l.entries)-n:] {
		s.WriteString(e.String())
	}
	io.WriteString(w, s.String())
}

// central is the package-level logger used by the free functions below. Most
// of thumbiss logs through these rather than constructing its own Logger.
var central = NewLogger(1000)

// Log logs to the central, package-level logger.
func Log(tag string, detail interface{}) { central.Log(Allow, tag, detail) }

// Logf logs a formatted message to the central, package-level logger.
func Logf(tagOrPermission interface{}, rest ...interface{}) {
	switch v := tagOrPermission.(type) {
	case Permission:
		if len(rest) < 2 {
			return
		}
		tag, _ := rest[0].(string)
		format, _ := rest[1].(string)
		central.Logf(v, tag, format, rest[2:]...)
	case string:
		if len(rest) < 1 {
			return
		}
		format, _ := rest[0].(string)
		central.Logf(Allow, v, format, rest[1:]...)
	}
}

// Write renders the central logger's contents.
func Write(w io.Writer) { central.Write(w) }

// Tail renders the last n entries of the central logger.
func Tail(w io.Writer, n int) { central.Tail(w, n) }

// Clear empties the central logger.
func Clear() { central.Clear() }
