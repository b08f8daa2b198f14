package main

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// ACTIVITY LOG (API request/response panel)
// ============================================================

type LogEntry struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Method   string          `json:"method"`
	Status   int             `json:"status"`
	Path     string          `json:"path"`
	Request  json.RawMessage `json:"request,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Expanded bool            `json:"-"`
}

// StatusClass buckets the status for the badge colour.
func (e LogEntry) StatusClass() string {
	switch {
	case e.Status < 300:
		return "s2xx"
	case e.Status < 500:
		return "s4xx"
	default:
		return "s5xx"
	}
}

func (e LogEntry) HasDetails() bool {
	return len(e.Request) > 0 || len(e.Response) > 0
}

func (e LogEntry) RequestText() string  { return prettyJSON(e.Request) }
func (e LogEntry) ResponseText() string { return prettyJSON(e.Response) }

// LogSink receives a copy of every entry, e.g. the MySQL store.
type LogSink interface {
	Save(entry LogEntry) error
}

type ActivityLog struct {
	mu      sync.Mutex
	entries []*LogEntry
	unread  int
	open    bool
	sink    LogSink
	now     func() time.Time
}

func NewActivityLog(sink LogSink) *ActivityLog {
	return &ActivityLog{sink: sink, now: time.Now}
}

// Record appends an exchange. The unread badge only counts while the panel is
// closed.
func (l *ActivityLog) Record(method, path string, status int, reqBody, resBody json.RawMessage) LogEntry {
	entry := LogEntry{
		ID:       uuid.NewString(),
		Time:     l.now(),
		Method:   method,
		Status:   status,
		Path:     path,
		Request:  nonNull(reqBody),
		Response: nonNull(resBody),
	}

	l.mu.Lock()
	l.entries = append(l.entries, &entry)
	if !l.open {
		l.unread++
	}
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		if err := sink.Save(entry); err != nil {
			log.Printf("⚠️ save api log: %v", err)
		}
	}
	return entry
}

// Toggle flips panel visibility and returns the new state.
func (l *ActivityLog) Toggle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = !l.open
	if l.open {
		l.unread = 0
	}
	return l.open
}

func (l *ActivityLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.unread = 0
}

// ToggleEntry expands or collapses one entry's bodies. Unknown ids are ignored.
func (l *ActivityLog) ToggleEntry(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			if e.HasDetails() {
				e.Expanded = !e.Expanded
			}
			return true
		}
	}
	return false
}

func (l *ActivityLog) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

func (l *ActivityLog) Unread() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// Entries returns copies in insertion order.
func (l *ActivityLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	return out
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
