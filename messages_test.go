package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessages_ExpireAfterTTL(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m := NewMessages(5 * time.Second)
	m.now = func() time.Time { return now }

	m.Show(areaPatient, "Patient created!", msgSuccess)
	msg, ok := m.Get(areaPatient)
	assert.True(t, ok)
	assert.Equal(t, "Patient created!", msg.Text)
	assert.Equal(t, msgSuccess, msg.Kind)
	assert.Equal(t, 5*time.Second, m.Remaining(areaPatient))

	now = now.Add(4 * time.Second)
	_, ok = m.Get(areaPatient)
	assert.True(t, ok)
	assert.Equal(t, time.Second, m.Remaining(areaPatient))

	now = now.Add(time.Second)
	_, ok = m.Get(areaPatient)
	assert.False(t, ok)
	assert.Zero(t, m.Remaining(areaPatient))
}

func TestMessages_NewMessageReplacesOld(t *testing.T) {
	m := NewMessages(5 * time.Second)
	m.Show(areaLogin, "Fill all fields", msgError)
	m.Show(areaLogin, "Login successful!", msgSuccess)

	msg, ok := m.Get(areaLogin)
	assert.True(t, ok)
	assert.Equal(t, "Login successful!", msg.Text)

	_, ok = m.Get(areaDoctor)
	assert.False(t, ok)
}
