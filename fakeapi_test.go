package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClinicAPI is an in-memory stand-in for the clinic backend, mounted under
// /api like the real one. Every request is recorded.
type fakeClinicAPI struct {
	mu       sync.Mutex
	srv      *httptest.Server
	token    string
	users    map[string]string
	patients map[int64]Patient
	doctors  map[int64]Doctor
	mappings map[int64]Mapping
	nextID   int64
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

func newFakeClinicAPI(t *testing.T) *fakeClinicAPI {
	t.Helper()
	f := &fakeClinicAPI{
		token:    "tok123",
		users:    map[string]string{"admin@clinic.test": "secret123"},
		patients: map[int64]Patient{},
		doctors:  map[int64]Doctor{},
		mappings: map[int64]Mapping{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register/", f.register)
	mux.HandleFunc("POST /api/auth/login/", f.login)

	mux.HandleFunc("GET /api/patients/", f.protected(f.listPatients))
	mux.HandleFunc("POST /api/patients/", f.protected(f.createPatient))
	mux.HandleFunc("GET /api/patients/{id}/", f.protected(f.getPatient))
	mux.HandleFunc("PUT /api/patients/{id}/", f.protected(f.updatePatient))
	mux.HandleFunc("DELETE /api/patients/{id}/", f.protected(f.deletePatient))

	mux.HandleFunc("GET /api/doctors/", f.protected(f.listDoctors))
	mux.HandleFunc("POST /api/doctors/", f.protected(f.createDoctor))
	mux.HandleFunc("GET /api/doctors/{id}/", f.protected(f.getDoctor))
	mux.HandleFunc("PUT /api/doctors/{id}/", f.protected(f.updateDoctor))
	mux.HandleFunc("DELETE /api/doctors/{id}/", f.protected(f.deleteDoctor))

	mux.HandleFunc("GET /api/mappings/", f.protected(f.listMappings))
	mux.HandleFunc("POST /api/mappings/", f.protected(f.createMapping))
	mux.HandleFunc("GET /api/mappings/{id}/", f.protected(f.mappingsForPatient))
	mux.HandleFunc("DELETE /api/mappings/{id}/", f.protected(f.deleteMapping))

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeClinicAPI) baseURL() string { return f.srv.URL + "/api" }

func (f *fakeClinicAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeClinicAPI) count(method, path string) int {
	n := 0
	for _, r := range f.recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeClinicAPI) last() recordedRequest {
	reqs := f.recorded()
	if len(reqs) == 0 {
		return recordedRequest{}
	}
	return reqs[len(reqs)-1]
}

func (f *fakeClinicAPI) seedPatient(p Patient) Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.patients[p.ID] = p
	return p
}

func (f *fakeClinicAPI) seedDoctor(d Doctor) Doctor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.ID = f.nextID
	f.doctors[d.ID] = d
	return d
}

func (f *fakeClinicAPI) seedMapping(patient Patient, doctor Doctor) Mapping {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := Mapping{
		ID:          f.nextID,
		Patient:     patient.ID,
		Doctor:      doctor.ID,
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		CreatedAt:   "2026-10-18T09:30:00.123456Z",
	}
	f.mappings[m.ID] = m
	return m
}

func (f *fakeClinicAPI) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathInt(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

// ---- auth ----

func (f *fakeClinicAPI) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.Email]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"A user with this email already exists."}})
		return
	}
	f.users[req.Email] = req.Password
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "User registered successfully", "user_id": 7})
}

func (f *fakeClinicAPI) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	pw, ok := f.users[req.Email]
	f.mu.Unlock()
	if !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": f.token, "refresh": "refresh-tok"})
}

// ---- patients ----

func (f *fakeClinicAPI) listPatients(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Patient{}
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.patients[id]; ok {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeClinicAPI) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientPayload
	json.NewDecoder(r.Body).Decode(&req)
	if req.Age == nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"age": {"This field may not be null."}})
		return
	}
	p := f.seedPatient(Patient{
		Name: req.Name, Age: *req.Age, Gender: req.Gender, Phone: req.Phone,
		Email: req.Email, Address: req.Address, MedicalHistory: req.MedicalHistory,
	})
	writeJSON(w, http.StatusCreated, p)
}

func (f *fakeClinicAPI) getPatient(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	p, ok := f.patients[pathInt(r)]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Patient matches the given query."})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (f *fakeClinicAPI) updatePatient(w http.ResponseWriter, r *http.Request) {
	var req patientPayload
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	if _, ok := f.patients[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Patient matches the given query."})
		return
	}
	if req.Age == nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"age": {"A valid integer is required."}})
		return
	}
	p := Patient{ID: id, Name: req.Name, Age: *req.Age, Gender: req.Gender, Phone: req.Phone,
		Email: req.Email, Address: req.Address, MedicalHistory: req.MedicalHistory}
	f.patients[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (f *fakeClinicAPI) deletePatient(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	if _, ok := f.patients[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Patient matches the given query."})
		return
	}
	delete(f.patients, id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- doctors ----

func (f *fakeClinicAPI) listDoctors(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Doctor{}
	for id := int64(1); id <= f.nextID; id++ {
		if d, ok := f.doctors[id]; ok {
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeClinicAPI) createDoctor(w http.ResponseWriter, r *http.Request) {
	var req doctorPayload
	json.NewDecoder(r.Body).Decode(&req)
	d := f.seedDoctor(Doctor{Name: req.Name, Specialization: req.Specialization,
		ExperienceYears: req.ExperienceYears, Phone: req.Phone, Email: req.Email})
	writeJSON(w, http.StatusCreated, d)
}

func (f *fakeClinicAPI) getDoctor(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	d, ok := f.doctors[pathInt(r)]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Doctor matches the given query."})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (f *fakeClinicAPI) updateDoctor(w http.ResponseWriter, r *http.Request) {
	var req doctorPayload
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	if _, ok := f.doctors[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Doctor matches the given query."})
		return
	}
	if req.Specialization == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"specialization": {"This field may not be blank."}})
		return
	}
	d := Doctor{ID: id, Name: req.Name, Specialization: req.Specialization,
		ExperienceYears: req.ExperienceYears, Phone: req.Phone, Email: req.Email}
	f.doctors[id] = d
	writeJSON(w, http.StatusOK, d)
}

func (f *fakeClinicAPI) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	if _, ok := f.doctors[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Doctor matches the given query."})
		return
	}
	delete(f.doctors, id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- mappings ----

func (f *fakeClinicAPI) listMappings(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Mapping{}
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.mappings[id]; ok {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeClinicAPI) createMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingPayload
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	p, pok := f.patients[req.Patient]
	d, dok := f.doctors[req.Doctor]
	dup := false
	for _, m := range f.mappings {
		if m.Patient == req.Patient && m.Doctor == req.Doctor {
			dup = true
		}
	}
	f.mu.Unlock()

	switch {
	case !pok || !dok:
		writeJSON(w, http.StatusBadRequest, map[string][]string{"patient": {"Invalid pk - object does not exist."}})
	case dup:
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"This doctor is already assigned to this patient."}})
	default:
		writeJSON(w, http.StatusCreated, f.seedMapping(p, d))
	}
}

func (f *fakeClinicAPI) mappingsForPatient(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	patientID := pathInt(r)
	out := []Mapping{}
	for id := int64(1); id <= f.nextID; id++ {
		if m, ok := f.mappings[id]; ok && m.Patient == patientID {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeClinicAPI) deleteMapping(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathInt(r)
	if _, ok := f.mappings[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Mapping not found"})
		return
	}
	delete(f.mappings, id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- console wiring ----

type testConsole struct {
	*Console
	backend *fakeClinicAPI
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	api := newFakeClinicAPI(t)
	session := NewSession()
	activity := NewActivityLog(nil)
	client, err := NewAPIClient(api.baseURL(), 2*time.Second, session, activity)
	require.NoError(t, err)
	return &testConsole{
		Console: NewConsole(client, session, activity, NewMessages(5*time.Second)),
		backend: api,
	}
}

// newLoggedInConsole returns a console whose session already holds the fake token.
func newLoggedInConsole(t *testing.T) *testConsole {
	t.Helper()
	tc := newTestConsole(t)
	tc.session.Login(tc.backend.token, "admin@clinic.test")
	return tc
}

func (tc *testConsole) message(t *testing.T, area string) Message {
	t.Helper()
	msg, ok := tc.msgs.Get(area)
	require.True(t, ok, "expected a message in area %q", area)
	return msg
}

func yes() Confirmer { return ConfirmFunc(func(string) bool { return true }) }
func no() Confirmer  { return ConfirmFunc(func(string) bool { return false }) }
