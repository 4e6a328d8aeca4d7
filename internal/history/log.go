// Package history keeps a short per-student log of completed study
// actions, newest last, capped at a fixed depth.
package history

import (
	"sort"
	"strings"

	"github.com/pavelanni/edusearch/internal/model"
)

// MaxEntries is the log depth; appending beyond it drops the oldest entry.
const MaxEntries = 10

// FilterAll disables subject filtering in Filter.
const FilterAll = "All"

// Log is a bounded study history. It is not safe for concurrent use;
// callers serialize access per student.
type Log struct {
	entries []model.HistoryEntry
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append records e as the newest entry, evicting the oldest once the
// log holds MaxEntries.
func (l *Log) Append(e model.HistoryEntry) {
	l.entries = append(l.entries, e)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[len(l.entries)-MaxEntries:]
	}
}

// Len returns the number of recorded entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the log in chronological order, oldest first.
func (l *Log) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns up to n entries, newest first.
func (l *Log) Recent(n int) []model.HistoryEntry {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]model.HistoryEntry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Filter returns entries whose topic contains search (case-insensitive)
// and whose subject equals subject, in chronological order. An empty
// search matches every topic; an empty subject or FilterAll matches
// every subject. Callers wanting newest-first display reverse the
// result themselves.
func (l *Log) Filter(search, subject string) []model.HistoryEntry {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]model.HistoryEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if search != "" && !strings.Contains(strings.ToLower(e.Topic), search) {
			continue
		}
		if subject != "" && subject != FilterAll && e.Subject != subject {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Subjects returns the distinct subjects present in the log, sorted.
func (l *Log) Subjects() []string {
	seen := make(map[string]struct{}, len(l.entries))
	for _, e := range l.entries {
		seen[e.Subject] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.entries = nil
}
