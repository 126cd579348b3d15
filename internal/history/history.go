// Package history provides the append-only record of task and
// collaboration events within one interaction session.
package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hearthkit/hearth/pkg/models"
)

// Log is an append-only sequence of history entries. Entries are
// appended only after their corresponding action is fully resolved,
// and appear in exact activation order. Under the single-live-component
// scheduling model no synchronization is needed; the log is owned by
// whichever component is currently live.
type Log struct {
	entries []models.HistoryEntry
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append adds an entry to the end of the log.
func (l *Log) Append(e models.HistoryEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Render formats the log as a compact JSON array for inclusion in
// oracle prompts. An empty log renders as "[]".
func (l *Log) Render() string {
	if len(l.entries) == 0 {
		return "[]"
	}
	data, err := json.Marshal(l.entries)
	if err != nil {
		// Entries are plain strings; marshal cannot realistically fail.
		var b strings.Builder
		b.WriteString("[")
		for i, e := range l.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{device: %s, type: %s, action: %s}", e.Device, e.Type, e.ActionTaken)
		}
		b.WriteString("]")
		return b.String()
	}
	return string(data)
}
