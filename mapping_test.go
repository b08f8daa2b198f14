package main

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPair(tc *testConsole) (Patient, Doctor) {
	p := tc.backend.seedPatient(Patient{Name: "Asha", Age: 34, Gender: "Female"})
	d := tc.backend.seedDoctor(Doctor{Name: "Dr. Rao", Specialization: "Cardiology"})
	return p, d
}

func TestConsole_CreateMapping(t *testing.T) {
	tc := newLoggedInConsole(t)
	p, d := seedPair(tc)
	tc.ToggleForm(formMapping)

	tc.CreateMapping(context.Background(), strconv.FormatInt(p.ID, 10), strconv.FormatInt(d.ID, 10))

	assert.Equal(t, "Doctor assigned to patient!", tc.message(t, areaMapping).Text)
	v := tc.View()
	require.Len(t, v.Mappings, 1)
	assert.Equal(t, "Asha", v.Mappings[0].PatientName)
	assert.Equal(t, "Dr. Rao", v.Mappings[0].DoctorName)
	assert.False(t, v.Forms[formMapping])

	post := tc.backend.recorded()[0]
	assert.JSONEq(t, `{"patient":1,"doctor":2}`, post.Body)
}

func TestConsole_CreateMapping_DuplicateShowsNonFieldError(t *testing.T) {
	tc := newLoggedInConsole(t)
	p, d := seedPair(tc)
	tc.backend.seedMapping(p, d)

	tc.CreateMapping(context.Background(), "1", "2")

	msg := tc.message(t, areaMapping)
	assert.Equal(t, msgError, msg.Kind)
	assert.Equal(t, "This doctor is already assigned to this patient.", msg.Text)
}

func TestConsole_CreateMapping_OtherFailureShowsPayload(t *testing.T) {
	tc := newLoggedInConsole(t)
	tc.CreateMapping(context.Background(), "7", "8")

	assert.Equal(t, `{"patient":["Invalid pk - object does not exist."]}`, tc.message(t, areaMapping).Text)
}

func TestConsole_CreateMapping_RequiresBoth(t *testing.T) {
	tc := newLoggedInConsole(t)
	tc.CreateMapping(context.Background(), "1", "")

	assert.Equal(t, "Select both patient and doctor", tc.message(t, areaMapping).Text)
	assert.Empty(t, tc.backend.recorded())
}

func TestConsole_ViewMappingsByPatient(t *testing.T) {
	tc := newLoggedInConsole(t)
	p, d := seedPair(tc)
	tc.backend.seedMapping(p, d)

	tc.ViewMappingsByPatient(context.Background(), " 1 ")

	panel := tc.View().Panels[panelMappingDetail]
	require.NotNil(t, panel)
	assert.Equal(t, "GET /api/mappings/1/ - Doctors for Patient #1", panel.Title)
	assert.Contains(t, panel.Body, `"doctor_name": "Dr. Rao"`)
}

func TestConsole_ViewMappingsByPatient_Errors(t *testing.T) {
	tc := newLoggedInConsole(t)

	tc.ViewMappingsByPatient(context.Background(), "  ")
	assert.Equal(t, "Enter a patient ID", tc.message(t, areaMapping).Text)
	assert.Empty(t, tc.backend.recorded())

	tc.session.Logout()
	tc.ViewMappingsByPatient(context.Background(), "1")
	assert.Equal(t, "No mappings found or invalid patient ID", tc.message(t, areaMapping).Text)
}

func TestConsole_DeleteMapping(t *testing.T) {
	tc := newLoggedInConsole(t)
	p, d := seedPair(tc)
	m := tc.backend.seedMapping(p, d)
	tc.LoadMappings(context.Background())
	require.Len(t, tc.View().Mappings, 1)

	var asked string
	tc.DeleteMapping(context.Background(), m.ID, ConfirmFunc(func(prompt string) bool {
		asked = prompt
		return true
	}))

	assert.Equal(t, "Remove this mapping?", asked)
	assert.Equal(t, "Mapping removed.", tc.message(t, areaMapping).Text)
	assert.Empty(t, tc.View().Mappings)
}

func TestConsole_DeleteMapping_DeclinedAndMissing(t *testing.T) {
	tc := newLoggedInConsole(t)

	tc.DeleteMapping(context.Background(), 5, no())
	assert.Empty(t, tc.backend.recorded())

	tc.DeleteMapping(context.Background(), 5, yes())
	assert.Equal(t, "Failed to delete", tc.message(t, areaMapping).Text)
}

func TestMapping_CreatedDate(t *testing.T) {
	m := Mapping{CreatedAt: "2026-10-18T12:00:00.123456Z"}
	assert.Len(t, m.CreatedDate(), len("2026-10-18"))

	assert.Equal(t, "yesterday", Mapping{CreatedAt: "yesterday"}.CreatedDate())
}
