package main

import (
	"log"
	"net/http"
	"strconv"
)

// ============================================================
// ROUTES (form posts -> console operations)
// ============================================================

func (a *App) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleDashboard)
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("GET /api/logs", a.handleLogs)

	mux.HandleFunc("POST /auth/register", a.handleRegister)
	mux.HandleFunc("POST /auth/login", a.handleLogin)
	mux.HandleFunc("POST /auth/logout", a.handleLogout)

	mux.HandleFunc("POST /patients/refresh", a.handleLoadPatients)
	mux.HandleFunc("POST /patients", a.handleCreatePatient)
	mux.HandleFunc("POST /patients/{id}/view", a.handleViewPatient)
	mux.HandleFunc("POST /patients/{id}/edit", a.handleEditPatient)
	mux.HandleFunc("POST /patients/{id}/save", a.handleSavePatient)
	mux.HandleFunc("POST /patients/{id}/delete", a.handleDeletePatient)

	mux.HandleFunc("POST /doctors/refresh", a.handleLoadDoctors)
	mux.HandleFunc("POST /doctors", a.handleCreateDoctor)
	mux.HandleFunc("POST /doctors/{id}/view", a.handleViewDoctor)
	mux.HandleFunc("POST /doctors/{id}/edit", a.handleEditDoctor)
	mux.HandleFunc("POST /doctors/{id}/save", a.handleSaveDoctor)
	mux.HandleFunc("POST /doctors/{id}/delete", a.handleDeleteDoctor)

	mux.HandleFunc("POST /mappings/refresh", a.handleLoadMappings)
	mux.HandleFunc("POST /mappings", a.handleCreateMapping)
	mux.HandleFunc("POST /mappings/lookup", a.handleMappingsByPatient)
	mux.HandleFunc("POST /mappings/{id}/delete", a.handleDeleteMapping)

	mux.HandleFunc("POST /toolbar/{resource}", a.handleToolbar)

	mux.HandleFunc("POST /panels/{name}/close", a.handleClosePanel)
	mux.HandleFunc("POST /forms/{name}/toggle", a.handleToggleForm)
	mux.HandleFunc("POST /confirm/cancel", a.handleCancelConfirm)

	mux.HandleFunc("POST /log/toggle", a.handleToggleLog)
	mux.HandleFunc("POST /log/clear", a.handleClearLog)
	mux.HandleFunc("POST /log/{id}/toggle", a.handleToggleLogEntry)
	return mux
}

func back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// confirmer answers yes when the form carries confirm=yes. Otherwise it parks
// the prompt on the page and answers no, so nothing is sent until the operator
// confirms.
func (a *App) confirmer(r *http.Request) Confirmer {
	if r.FormValue("confirm") == "yes" {
		a.console.CancelConfirm()
		return ConfirmFunc(func(string) bool { return true })
	}
	action := r.URL.Path
	return ConfirmFunc(func(prompt string) bool {
		a.console.AskConfirm(prompt, action)
		return false
	})
}

// ---- auth ----

func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	a.console.Register(r.Context(), r.FormValue("name"), r.FormValue("email"), r.FormValue("password"))
	back(w, r)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	a.console.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	back(w, r)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.console.Logout()
	back(w, r)
}

// ---- patients ----

func patientForm(r *http.Request) PatientForm {
	return PatientForm{
		Name:           r.FormValue("name"),
		Age:            r.FormValue("age"),
		Gender:         r.FormValue("gender"),
		Phone:          r.FormValue("phone"),
		Email:          r.FormValue("email"),
		Address:        r.FormValue("address"),
		MedicalHistory: r.FormValue("medical_history"),
	}
}

func (a *App) handleLoadPatients(w http.ResponseWriter, r *http.Request) {
	a.console.LoadPatients(r.Context())
	back(w, r)
}

func (a *App) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	a.console.CreatePatient(r.Context(), patientForm(r))
	back(w, r)
}

func (a *App) handleViewPatient(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.ViewPatient(r.Context(), id)
		back(w, r)
	}
}

func (a *App) handleEditPatient(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.EditPatient(r.Context(), id)
		back(w, r)
	}
}

func (a *App) handleSavePatient(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.SavePatient(r.Context(), id, patientForm(r))
		back(w, r)
	}
}

func (a *App) handleDeletePatient(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.DeletePatient(r.Context(), id, a.confirmer(r))
		back(w, r)
	}
}

// ---- doctors ----

func doctorForm(r *http.Request) DoctorForm {
	return DoctorForm{
		Name:            r.FormValue("name"),
		Specialization:  r.FormValue("specialization"),
		ExperienceYears: r.FormValue("experience_years"),
		Phone:           r.FormValue("phone"),
		Email:           r.FormValue("email"),
	}
}

func (a *App) handleLoadDoctors(w http.ResponseWriter, r *http.Request) {
	a.console.LoadDoctors(r.Context())
	back(w, r)
}

func (a *App) handleCreateDoctor(w http.ResponseWriter, r *http.Request) {
	a.console.CreateDoctor(r.Context(), doctorForm(r))
	back(w, r)
}

func (a *App) handleViewDoctor(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.ViewDoctor(r.Context(), id)
		back(w, r)
	}
}

func (a *App) handleEditDoctor(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.EditDoctor(r.Context(), id)
		back(w, r)
	}
}

func (a *App) handleSaveDoctor(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.SaveDoctor(r.Context(), id, doctorForm(r))
		back(w, r)
	}
}

func (a *App) handleDeleteDoctor(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.DeleteDoctor(r.Context(), id, a.confirmer(r))
		back(w, r)
	}
}

// ---- mappings ----

func (a *App) handleLoadMappings(w http.ResponseWriter, r *http.Request) {
	a.console.LoadMappings(r.Context())
	back(w, r)
}

func (a *App) handleCreateMapping(w http.ResponseWriter, r *http.Request) {
	a.console.CreateMapping(r.Context(), r.FormValue("patient"), r.FormValue("doctor"))
	back(w, r)
}

func (a *App) handleMappingsByPatient(w http.ResponseWriter, r *http.Request) {
	a.console.ViewMappingsByPatient(r.Context(), r.FormValue("patient_id"))
	back(w, r)
}

func (a *App) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		a.console.DeleteMapping(r.Context(), id, a.confirmer(r))
		back(w, r)
	}
}

// ---- toolbar ----

func (a *App) handleToolbar(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	if _, ok := lookups[resource]; !ok {
		http.NotFound(w, r)
		return
	}
	a.console.ToolbarLookup(r.Context(), resource, r.FormValue("id"), r.FormValue("by") == "id")
	back(w, r)
}

// ---- panels, forms, prompt ----

func (a *App) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	if !a.console.ClosePanel(r.PathValue("name")) {
		http.NotFound(w, r)
		return
	}
	back(w, r)
}

func (a *App) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	if !a.console.ToggleForm(r.PathValue("name")) {
		http.NotFound(w, r)
		return
	}
	back(w, r)
}

func (a *App) handleCancelConfirm(w http.ResponseWriter, r *http.Request) {
	a.console.CancelConfirm()
	back(w, r)
}

// ---- activity log ----

func (a *App) handleToggleLog(w http.ResponseWriter, r *http.Request) {
	a.console.log.Toggle()
	back(w, r)
}

func (a *App) handleClearLog(w http.ResponseWriter, r *http.Request) {
	a.console.log.Clear()
	back(w, r)
}

func (a *App) handleToggleLogEntry(w http.ResponseWriter, r *http.Request) {
	if !a.console.log.ToggleEntry(r.PathValue("id")) {
		log.Printf("⚠️ toggle unknown log entry %s", r.PathValue("id"))
	}
	back(w, r)
}
