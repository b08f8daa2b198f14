package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// PATIENT-DOCTOR MAPPINGS
// ============================================================

type Mapping struct {
	ID          int64  `json:"id"`
	Patient     int64  `json:"patient"`
	Doctor      int64  `json:"doctor"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	CreatedAt   string `json:"created_at"`
}

// CreatedDate renders created_at as a plain date, or the raw value when it
// does not parse.
func (m Mapping) CreatedDate() string {
	t, err := time.Parse(time.RFC3339Nano, m.CreatedAt)
	if err != nil {
		return m.CreatedAt
	}
	return t.Local().Format("2006-01-02")
}

type mappingPayload struct {
	Patient int64 `json:"patient"`
	Doctor  int64 `json:"doctor"`
}

func (c *Console) LoadMappings(ctx context.Context) {
	res, err := c.api.Do(ctx, "GET", "/mappings/", nil)
	if err != nil {
		log.Printf("⚠️ load mappings: %v", err)
		return
	}
	if !res.OK {
		return
	}
	var mappings []Mapping
	if err := res.Decode(&mappings); err != nil {
		log.Printf("⚠️ load mappings: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.mappings = mappings
}

// ViewMappingsByPatient shows the doctors assigned to one patient.
func (c *Console) ViewMappingsByPatient(ctx context.Context, patientID string) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		c.msgs.Show(areaMapping, "Enter a patient ID", msgError)
		return
	}

	path := "/mappings/" + url.PathEscape(patientID) + "/"
	res, err := c.api.Do(ctx, "GET", path, nil)
	if err != nil {
		c.reportTransport(areaMapping, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaMapping, "No mappings found or invalid patient ID", msgError)
		return
	}
	c.setPanel(panelMappingDetail, &DetailPanel{
		Title: fmt.Sprintf("GET %s - Doctors for Patient #%s", c.api.PathFor(path), patientID),
		Body:  prettyJSON(res.Data),
	})
}

// CreateMapping assigns a doctor to a patient. Duplicate assignments are
// rejected by the backend, whose first non-field error is shown.
func (c *Console) CreateMapping(ctx context.Context, patient, doctor string) {
	patientID, perr := strconv.ParseInt(strings.TrimSpace(patient), 10, 64)
	doctorID, derr := strconv.ParseInt(strings.TrimSpace(doctor), 10, 64)
	if perr != nil || derr != nil {
		c.msgs.Show(areaMapping, "Select both patient and doctor", msgError)
		return
	}

	res, err := c.api.Do(ctx, "POST", "/mappings/", mappingPayload{Patient: patientID, Doctor: doctorID})
	if err != nil {
		c.reportTransport(areaMapping, err)
		return
	}
	if !res.OK {
		msg, ok := firstNonFieldError(res.Data)
		if !ok {
			msg = compactPayload(res.Data, "Failed to assign doctor")
		}
		c.msgs.Show(areaMapping, msg, msgError)
		return
	}

	c.msgs.Show(areaMapping, "Doctor assigned to patient!", msgSuccess)
	c.closeForm(formMapping)
	c.LoadMappings(ctx)
}

func (c *Console) DeleteMapping(ctx context.Context, id int64, confirm Confirmer) {
	if !confirm.Confirm("Remove this mapping?") {
		return
	}
	res, err := c.api.Do(ctx, "DELETE", fmt.Sprintf("/mappings/%d/", id), nil)
	if err != nil {
		c.reportTransport(areaMapping, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaMapping, "Failed to delete", msgError)
		return
	}

	c.msgs.Show(areaMapping, "Mapping removed.", msgSuccess)
	c.LoadMappings(ctx)
}
