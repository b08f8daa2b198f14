package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// ============================================================
// CONSOLE (session + activity log + messages + UI state)
// ============================================================

// Panel and form names used by the close/toggle routes.
const (
	panelPatientDetail = "patient-detail"
	panelPatientEdit   = "patient-edit"
	panelDoctorDetail  = "doctor-detail"
	panelDoctorEdit    = "doctor-edit"
	panelMappingDetail = "mapping-detail"
	panelToolbar       = "toolbar"

	formPatient = "patient"
	formDoctor  = "doctor"
	formMapping = "mapping"
)

// Confirmer answers a blocking yes/no prompt before a destructive call.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type DetailPanel struct {
	Title string
	Body  string
}

type ConfirmPrompt struct {
	Text   string
	Action string
}

type SelectOption struct {
	Value int64
	Label string
}

type uiState struct {
	patients       []Patient
	doctors        []Doctor
	mappings       []Mapping
	patientOptions []SelectOption
	doctorOptions  []SelectOption

	panels      map[string]*DetailPanel
	patientEdit *Patient
	doctorEdit  *Doctor
	forms       map[string]bool
	confirm     *ConfirmPrompt

	loginEmail   string
	patientDraft PatientForm
	doctorDraft  DoctorForm
}

func newUIState() uiState {
	return uiState{
		panels: map[string]*DetailPanel{},
		forms:  map[string]bool{},
	}
}

type Console struct {
	api     *APIClient
	session *Session
	log     *ActivityLog
	msgs    *Messages
	toolbar *Toolbar

	mu sync.Mutex
	ui uiState
}

func NewConsole(api *APIClient, session *Session, activity *ActivityLog, msgs *Messages) *Console {
	return &Console{
		api:     api,
		session: session,
		log:     activity,
		msgs:    msgs,
		toolbar: NewToolbar(api),
		ui:      newUIState(),
	}
}

// LoadAll refreshes the three lists; called whenever the session becomes
// logged-in.
func (c *Console) LoadAll(ctx context.Context) {
	c.LoadPatients(ctx)
	c.LoadDoctors(ctx)
	c.LoadMappings(ctx)
}

func (c *Console) setPanel(name string, p *DetailPanel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.panels[name] = p
}

// ClosePanel hides a detail, edit or toolbar panel. Reports whether the name is known.
func (c *Console) ClosePanel(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case panelPatientEdit:
		c.ui.patientEdit = nil
	case panelDoctorEdit:
		c.ui.doctorEdit = nil
	case panelPatientDetail, panelDoctorDetail, panelMappingDetail, panelToolbar:
		delete(c.ui.panels, name)
	default:
		return false
	}
	return true
}

func (c *Console) ToggleForm(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case formPatient, formDoctor, formMapping:
		c.ui.forms[name] = !c.ui.forms[name]
		return true
	}
	return false
}

func (c *Console) closeForm(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.forms[name] = false
}

// AskConfirm parks a prompt; answering it re-posts action with confirm=yes.
func (c *Console) AskConfirm(prompt, action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.confirm = &ConfirmPrompt{Text: prompt, Action: action}
}

func (c *Console) CancelConfirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.confirm = nil
}

func (c *Console) reportTransport(area string, err error) {
	log.Printf("⚠️ %s: %v", area, err)
	c.msgs.Show(area, transportMessage(err), msgError)
}

// ============================================================
// VIEW SNAPSHOT (read-only input for the renderer)
// ============================================================

// MessageView carries the time left so the page can hide the message itself.
type MessageView struct {
	Text      string
	Kind      string
	TTLMillis int64
}

type View struct {
	LoggedIn       bool
	Email          string
	TokenExpiresAt time.Time

	Patients       []Patient
	Doctors        []Doctor
	Mappings       []Mapping
	PatientOptions []SelectOption
	DoctorOptions  []SelectOption

	Panels      map[string]*DetailPanel
	PatientEdit *Patient
	DoctorEdit  *Doctor
	Forms       map[string]bool
	Confirm     *ConfirmPrompt

	LoginEmail   string
	PatientDraft PatientForm
	DoctorDraft  DoctorForm

	Messages map[string]*MessageView

	LogOpen    bool
	LogUnread  int
	LogEntries []LogEntry
}

func (c *Console) View() View {
	v := View{
		LoggedIn:       c.session.LoggedIn(),
		Email:          c.session.Email(),
		TokenExpiresAt: c.session.ExpiresAt(),
		Messages:       map[string]*MessageView{},
		LogOpen:        c.log.IsOpen(),
		LogUnread:      c.log.Unread(),
		LogEntries:     c.log.Entries(),
	}
	for _, area := range []string{areaRegister, areaLogin, areaPatient, areaDoctor, areaMapping, areaToolbar} {
		if m, ok := c.msgs.Get(area); ok {
			v.Messages[area] = &MessageView{
				Text:      m.Text,
				Kind:      m.Kind,
				TTLMillis: c.msgs.Remaining(area).Milliseconds(),
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	v.Patients = append([]Patient(nil), c.ui.patients...)
	v.Doctors = append([]Doctor(nil), c.ui.doctors...)
	v.Mappings = append([]Mapping(nil), c.ui.mappings...)
	v.PatientOptions = append([]SelectOption(nil), c.ui.patientOptions...)
	v.DoctorOptions = append([]SelectOption(nil), c.ui.doctorOptions...)
	v.Panels = make(map[string]*DetailPanel, len(c.ui.panels))
	for k, p := range c.ui.panels {
		cp := *p
		v.Panels[k] = &cp
	}
	if c.ui.patientEdit != nil {
		p := *c.ui.patientEdit
		v.PatientEdit = &p
	}
	if c.ui.doctorEdit != nil {
		d := *c.ui.doctorEdit
		v.DoctorEdit = &d
	}
	v.Forms = make(map[string]bool, len(c.ui.forms))
	for k, open := range c.ui.forms {
		v.Forms[k] = open
	}
	if c.ui.confirm != nil {
		cp := *c.ui.confirm
		v.Confirm = &cp
	}
	v.LoginEmail = c.ui.loginEmail
	v.PatientDraft = c.ui.patientDraft
	v.DoctorDraft = c.ui.doctorDraft
	return v
}
