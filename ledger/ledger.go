package ledger

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Source tells where an Entry comes from.
type Source string

const (
	SourceServer Source = "server"
	SourceClient Source = "client"
)

// Entry is a single status line.
type Entry struct {
	Index   int             `json:"index"`
	Time    time.Time       `json:"time"`
	Source  Source          `json:"source"`
	Message string          `json:"message"`
	End     bool            `json:"end"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// Ledger is an append-only, concurrency-safe log of entries.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{now: time.Now}
}

// AppendServer records a status received from the server.
func (l *Ledger) AppendServer(message string, end bool, raw json.RawMessage) Entry {
	return l.append(Entry{Source: SourceServer, Message: message, End: end, Raw: raw})
}

// AppendClient records a status synthesized by the client. Client entries
// never end the server's stream.
func (l *Ledger) AppendClient(message string) Entry {
	return l.append(Entry{Source: SourceClient, Message: message})
}

func (l *Ledger) append(e Entry) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.Index = len(l.entries)
	e.Time = l.now()
	if e.Raw != nil {
		e.Raw = append(json.RawMessage(nil), e.Raw...)
	}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of the log.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Latest returns the last entry, if any.
func (l *Ledger) Latest() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// GetByIndex returns the entry with the given index.
func (l *Ledger) GetByIndex(index int) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.entries) {
		return Entry{}, fmt.Errorf("index out of range")
	}
	return l.entries[index], nil
}

// Verify checks index continuity and that time never goes backwards.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, e := range l.entries {
		if e.Index != i {
			return fmt.Errorf("invalid index: expected %d, got %d", i, e.Index)
		}
		if i > 0 && e.Time.Before(l.entries[i-1].Time) {
			return fmt.Errorf("entry %d recorded before entry %d", i, i-1)
		}
	}
	return nil
}
