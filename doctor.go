package main

import (
	"context"
	"fmt"
	"log"
)

// ============================================================
// DOCTORS
// ============================================================

type Doctor struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type DoctorForm struct {
	Name            string
	Specialization  string
	ExperienceYears string
	Phone           string
	Email           string
}

type doctorPayload struct {
	Name            string `json:"name"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
}

// payload falls back to zero years when experience is blank or not a number.
func (f DoctorForm) payload() doctorPayload {
	years, _ := leadingInt(f.ExperienceYears)
	return doctorPayload{
		Name:            f.Name,
		Specialization:  f.Specialization,
		ExperienceYears: years,
		Phone:           f.Phone,
		Email:           f.Email,
	}
}

func doctorPath(id int64) string {
	return fmt.Sprintf("/doctors/%d/", id)
}

func (c *Console) LoadDoctors(ctx context.Context) {
	res, err := c.api.Do(ctx, "GET", "/doctors/", nil)
	if err != nil {
		log.Printf("⚠️ load doctors: %v", err)
		return
	}
	if !res.OK {
		return
	}
	var doctors []Doctor
	if err := res.Decode(&doctors); err != nil {
		log.Printf("⚠️ load doctors: %v", err)
		return
	}

	options := make([]SelectOption, 0, len(doctors))
	for _, d := range doctors {
		options = append(options, SelectOption{Value: d.ID, Label: fmt.Sprintf("%s (%s)", d.Name, d.Specialization)})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.doctors = doctors
	c.ui.doctorOptions = options
}

func (c *Console) ViewDoctor(ctx context.Context, id int64) {
	path := doctorPath(id)
	res, err := c.api.Do(ctx, "GET", path, nil)
	if err != nil {
		c.reportTransport(areaDoctor, err)
		return
	}
	if !res.OK {
		return
	}
	c.setPanel(panelDoctorDetail, &DetailPanel{
		Title: fmt.Sprintf("GET %s - Doctor Details", c.api.PathFor(path)),
		Body:  prettyJSON(res.Data),
	})
}

func (c *Console) CreateDoctor(ctx context.Context, form DoctorForm) {
	c.mu.Lock()
	c.ui.doctorDraft = form
	c.mu.Unlock()

	if form.Name == "" || form.Specialization == "" {
		c.msgs.Show(areaDoctor, "Name and specialization are required", msgError)
		return
	}

	res, err := c.api.Do(ctx, "POST", "/doctors/", form.payload())
	if err != nil {
		c.reportTransport(areaDoctor, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaDoctor, compactPayload(res.Data, "Failed to create doctor"), msgError)
		return
	}

	c.msgs.Show(areaDoctor, "Doctor created!", msgSuccess)
	c.mu.Lock()
	c.ui.doctorDraft = DoctorForm{}
	c.mu.Unlock()
	c.closeForm(formDoctor)
	c.LoadDoctors(ctx)
}

func (c *Console) EditDoctor(ctx context.Context, id int64) {
	res, err := c.api.Do(ctx, "GET", doctorPath(id), nil)
	if err != nil {
		c.reportTransport(areaDoctor, err)
		return
	}
	if !res.OK {
		return
	}
	var d Doctor
	if err := res.Decode(&d); err != nil {
		log.Printf("⚠️ edit doctor %d: %v", id, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.doctorEdit = &d
}

func (c *Console) SaveDoctor(ctx context.Context, id int64, form DoctorForm) {
	res, err := c.api.Do(ctx, "PUT", doctorPath(id), form.payload())
	if err != nil {
		c.reportTransport(areaDoctor, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaDoctor, compactPayload(res.Data, "Failed to update doctor"), msgError)
		return
	}

	c.msgs.Show(areaDoctor, "Doctor updated!", msgSuccess)
	c.ClosePanel(panelDoctorEdit)
	c.LoadDoctors(ctx)
}

func (c *Console) DeleteDoctor(ctx context.Context, id int64, confirm Confirmer) {
	if !confirm.Confirm("Delete this doctor?") {
		return
	}
	res, err := c.api.Do(ctx, "DELETE", doctorPath(id), nil)
	if err != nil {
		c.reportTransport(areaDoctor, err)
		return
	}
	if !res.OK {
		c.msgs.Show(areaDoctor, "Failed to delete", msgError)
		return
	}

	c.msgs.Show(areaDoctor, "Doctor deleted.", msgSuccess)
	c.LoadDoctors(ctx)
}
