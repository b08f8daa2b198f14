package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ============================================================
// PATIENTS
// ============================================================

var genders = []string{"Male", "Female", "Other"}

type Patient struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medical_history"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// PatientForm holds the raw input fields as typed by the operator.
type PatientForm struct {
	Name           string
	Age            string
	Gender         string
	Phone          string
	Email          string
	Address        string
	MedicalHistory string
}

// Age is sent as null when it does not start with a number; the backend rejects it.
type patientPayload struct {
	Name           string `json:"name"`
	Age            *int   `json:"age"`
	Gender         string `json:"gender"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medical_history"`
}

func (f PatientForm) payload() patientPayload {
	p := patientPayload{
		Name:           f.Name,
		Gender:         f.Gender,
		Phone:          f.Phone,
		Email:          f.Email,
		Address:        f.Address,
		MedicalHistory: f.MedicalHistory,
	}
	if age, ok := leadingInt(f.Age); ok {
		p.Age = &age
	}
	return p
}

// leadingInt reads an optionally signed run of leading digits, so "25.5" and
// "25 yrs" both give 25. Input without leading digits is not a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f PatientForm) complete() bool {
	p := f.payload()
	return p.Name != "" && p.Age != nil && *p.Age != 0 && p.Gender != ""
}

func patientPath(id int64) string {
	return fmt.Sprintf("/patients/%d/", id)
}

func (c *Console) LoadPatients(ctx context.Context) {
	res, err := c.api.Do(ctx, "GET", "/patients/", nil)
	if err != nil {
		log.Printf("⚠️ load patients: %v", err)
		return
	}
	if !res.OK {
		return
	}
	var patients []Patient
	if err := res.Decode(&patients); err != nil {
		log.Printf("⚠️ load patients: %v", err)
		return
	}

	options := make([]SelectOption, 0, len(patients))
	for _, p := range patients {
		options = append(options, SelectOption{Value: p.ID, Label: p.Name})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.patients = patients
	c.ui.patientOptions = options
}

func (c *Console) ViewPatient(ctx context.Context, id int64) {
	path := patientPath(id)
	res, err := c.api.Do(ctx, "GET", path, nil)
	if err != nil {
		c.reportTransport(areaPatient, err)
		return
	}
	if !res.OK {
		return
	}
	c.setPanel(panelPatientDetail, &DetailPanel{
		Title: fmt.Sprintf("GET %s - Patient Details", c.api.PathFor(path)),
		Body:  prettyJSON(res.Data),
	})
}

func (c *Console) CreatePatient(ctx context.Context, form PatientForm) {
	c.mu.Lock()
	c.ui.patientDraft = form
	c.mu.Unlock()

	if !form.complete() {
		c.msgs.Show(areaPatient, "Name, age, and gender are required", msgError)
		return
	}

	res, err := c.api.Do(ctx, "POST", "/patients/", form.payload())
	if err != nil {
		c.reportTransport(areaPatient, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaPatient, compactPayload(res.Data, "Failed to create patient"), msgError)
		return
	}

	c.msgs.Show(areaPatient, "Patient created!", msgSuccess)
	c.mu.Lock()
	// gender keeps its selection, like the select box it comes from
	c.ui.patientDraft = PatientForm{Gender: form.Gender}
	c.mu.Unlock()
	c.closeForm(formPatient)
	c.LoadPatients(ctx)
}

// EditPatient opens the edit form pre-filled with the stored record.
func (c *Console) EditPatient(ctx context.Context, id int64) {
	res, err := c.api.Do(ctx, "GET", patientPath(id), nil)
	if err != nil {
		c.reportTransport(areaPatient, err)
		return
	}
	if !res.OK {
		return
	}
	var p Patient
	if err := res.Decode(&p); err != nil {
		log.Printf("⚠️ edit patient %d: %v", id, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.patientEdit = &p
}

func (c *Console) SavePatient(ctx context.Context, id int64, form PatientForm) {
	res, err := c.api.Do(ctx, "PUT", patientPath(id), form.payload())
	if err != nil {
		c.reportTransport(areaPatient, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaPatient, compactPayload(res.Data, "Failed to update patient"), msgError)
		return
	}

	c.msgs.Show(areaPatient, "Patient updated!", msgSuccess)
	c.ClosePanel(panelPatientEdit)
	c.LoadPatients(ctx)
}

func (c *Console) DeletePatient(ctx context.Context, id int64, confirm Confirmer) {
	if !confirm.Confirm("Delete this patient?") {
		return
	}
	res, err := c.api.Do(ctx, "DELETE", patientPath(id), nil)
	if err != nil {
		c.reportTransport(areaPatient, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaPatient, "Failed to delete", msgError)
		return
	}

	c.msgs.Show(areaPatient, "Patient deleted.", msgSuccess)
	c.LoadPatients(ctx)
}
