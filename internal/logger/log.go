// Package logger is an in-memory log of tagged entries. An entry logged twice
// in a row is stored once with a count, so a CPU spinning on the same unknown
// opcode does not flood the log.
//
// Each emulator instance owns its own Logger; there is no package level log.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultMaxEntries is used when New() is given a non-positive size.
const DefaultMaxEntries = 256

// Entry is one logged message. Count is 1 for a message logged once.
type Entry struct {
	Tag    string
	Detail string
	Count  int
	Last   time.Time
}

func (e Entry) String() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Count)
	}
	return e.Tag + ": " + e.Detail
}

// Logger holds the newest entries in a fixed ring.
type Logger struct {
	ring  []Entry
	start int
	n     int
	echo  io.Writer
}

func New(maxEntries int) *Logger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Logger{ring: make([]Entry, maxEntries)}
}

// SetEcho copies every logged message to w as it arrives. Nil stops echoing.
func (l *Logger) SetEcho(w io.Writer) {
	l.echo = w
}

func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

func (l *Logger) at(i int) *Entry {
	return &l.ring[(l.start+i)%len(l.ring)]
}

// Log records detail under tag.
func (l *Logger) Log(tag, detail string) {
	tag, detail = oneLine(tag), oneLine(detail)
	now := time.Now()

	var e *Entry
	if l.n > 0 {
		if last := l.at(l.n - 1); last.Tag == tag && last.Detail == detail {
			e = last
			e.Count++
			e.Last = now
		}
	}
	if e == nil {
		if l.n == len(l.ring) {
			l.start = (l.start + 1) % len(l.ring)
		} else {
			l.n++
		}
		e = l.at(l.n - 1)
		*e = Entry{Tag: tag, Detail: detail, Count: 1, Last: now}
	}

	if l.echo != nil {
		fmt.Fprintln(l.echo, e)
	}
}

func (l *Logger) Logf(tag, format string, args ...any) {
	l.Log(tag, fmt.Sprintf(format, args...))
}

// Clear empties the log. The ring keeps its size.
func (l *Logger) Clear() {
	l.start, l.n = 0, 0
}

func (l *Logger) Len() int {
	return l.n
}

// Entries returns the held entries, oldest first.
func (l *Logger) Entries() []Entry {
	out := make([]Entry, l.n)
	for i := range out {
		out[i] = *l.at(i)
	}
	return out
}

// Write prints every entry to w and reports whether there was anything to
// print.
func (l *Logger) Write(w io.Writer) bool {
	l.Tail(w, l.n)
	return l.n > 0
}

// Tail prints the newest count entries to w.
func (l *Logger) Tail(w io.Writer, count int) {
	count = min(max(count, 0), l.n)
	for i := l.n - count; i < l.n; i++ {
		fmt.Fprintln(w, l.at(i))
	}
}
