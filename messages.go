package main

import (
	"sync"
	"time"
)

// Message areas, one per form section.
const (
	areaRegister = "register"
	areaLogin    = "login"
	areaPatient  = "patient"
	areaDoctor   = "doctor"
	areaMapping  = "mapping"
	areaToolbar  = "toolbar"
)

const (
	msgSuccess = "success"
	msgError   = "error"
)

type Message struct {
	Text  string
	Kind  string
	shown time.Time
}

// Messages holds one transient message per area; each expires after ttl.
type Messages struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]Message
	now   func() time.Time
}

func NewMessages(ttl time.Duration) *Messages {
	return &Messages{ttl: ttl, items: map[string]Message{}, now: time.Now}
}

func (m *Messages) Show(area, text, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[area] = Message{Text: text, Kind: kind, shown: m.now()}
}

func (m *Messages) Get(area string) (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.items[area]
	if !ok {
		return Message{}, false
	}
	if m.now().Sub(msg.shown) >= m.ttl {
		delete(m.items, area)
		return Message{}, false
	}
	return msg, true
}

// Remaining is how long the area's message stays visible; the page uses it to
// hide the message client-side.
func (m *Messages) Remaining(area string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.items[area]
	if !ok {
		return 0
	}
	left := m.ttl - m.now().Sub(msg.shown)
	if left < 0 {
		return 0
	}
	return left
}
