package main

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
)

type panelArgs struct {
	Name string
	P    *DetailPanel
}

func parsePage() (*template.Template, error) {
	return template.New("page").Funcs(template.FuncMap{
		"genders": func() []string { return genders },
		"panelOf": func(name string, p *DetailPanel) panelArgs { return panelArgs{Name: name, P: p} },
	}).Parse(dashboardHTML)
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := a.page.Execute(&buf, a.console.View()); err != nil {
		log.Printf("⚠️ render dashboard: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

const dashboardHTML = `{{define "msg"}}{{with .}}<div class="msg {{.Kind}}" data-ttl="{{.TTLMillis}}">{{.Text}}</div>{{end}}{{end}}
{{define "panel"}}{{with .P}}<div class="detail-panel">
  <h3>{{.Title}}</h3>
  <pre>{{.Body}}</pre>
  <form method="post" action="/panels/{{$.Name}}/close"><button class="btn btn-outline btn-sm">Close</button></form>
</div>{{end}}{{end}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Clinic Console</title>
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>
*{margin:0;padding:0;box-sizing:border-box}
:root{
  --bg:#0a0e1a;--surface:#111827;--card:#1e293b;
  --border:#334155;--text:#e2e8f0;--text-muted:#94a3b8;--text-dim:#64748b;
  --accent:#6366f1;--success:#22c55e;--warning:#f59e0b;--danger:#ef4444;--info:#3b82f6;
  --gradient:linear-gradient(135deg,#6366f1,#8b5cf6,#a78bfa);
  --radius:12px;--radius-sm:8px;
}
body{font-family:'Inter',sans-serif;background:var(--bg);color:var(--text);min-height:100vh}
.header{
  background:linear-gradient(180deg,rgba(99,102,241,.08),transparent);
  border-bottom:1px solid var(--border);padding:16px 32px;
  display:flex;align-items:center;justify-content:space-between;
  position:sticky;top:0;z-index:100;backdrop-filter:blur(20px);
}
.header h1{font-size:20px;font-weight:700;
  background:var(--gradient);-webkit-background-clip:text;-webkit-text-fill-color:transparent;}
.status-bar{font-size:13px;padding:6px 12px;border-radius:var(--radius-sm)}
.status-bar.logged-in{background:rgba(34,197,94,.15);color:var(--success)}
.status-bar.logged-out{background:rgba(245,158,11,.15);color:var(--warning)}
.section{padding:24px 32px}
.section h2{font-size:16px;font-weight:600;margin-bottom:16px;display:flex;align-items:center;gap:8px}
.card{background:var(--card);border:1px solid var(--border);border-radius:var(--radius);padding:20px;margin-bottom:16px}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(320px,1fr));gap:16px}
.form-row{display:flex;gap:12px;flex-wrap:wrap}
.form-row>div{flex:1;min-width:140px}
label{display:block;font-size:12px;color:var(--text-muted);margin:8px 0 4px}
input,select,textarea{
  width:100%;background:var(--surface);border:1px solid var(--border);color:var(--text);
  padding:8px 12px;border-radius:var(--radius-sm);font-family:inherit;font-size:13px;outline:none;
}
input:focus,select:focus,textarea:focus{border-color:var(--accent)}
.btn{
  padding:8px 16px;border-radius:var(--radius-sm);border:none;cursor:pointer;
  font-family:inherit;font-size:13px;font-weight:600;display:inline-flex;align-items:center;gap:6px;
}
.btn-primary{background:var(--accent);color:#fff}
.btn-success{background:var(--success);color:#fff}
.btn-info{background:var(--info);color:#fff}
.btn-warning{background:var(--warning);color:#fff}
.btn-danger{background:var(--danger);color:#fff}
.btn-outline{background:transparent;border:1px solid var(--border);color:var(--text-muted)}
.btn-sm{padding:6px 12px;font-size:12px}
.inline{display:inline}
.actions{display:flex;gap:6px}
.toolbar{display:flex;gap:8px;flex-wrap:wrap;align-items:center}
.toolbar input{width:120px}
table{width:100%;border-collapse:collapse;font-size:13px}
thead{background:rgba(99,102,241,.08)}
th{padding:12px 16px;text-align:left;font-weight:600;color:var(--text-muted);
  font-size:11px;text-transform:uppercase;letter-spacing:.5px;border-bottom:1px solid var(--border)}
td{padding:10px 16px;border-bottom:1px solid rgba(51,65,85,.5)}
.msg{font-size:13px;margin-top:12px;padding:8px;border-radius:var(--radius-sm)}
.msg.success{background:rgba(34,197,94,.15);color:var(--success)}
.msg.error{background:rgba(239,68,68,.15);color:var(--danger)}
.detail-panel,.edit-form{background:var(--surface);border:1px solid var(--border);border-radius:var(--radius);padding:16px;margin-top:16px}
.detail-panel h3,.edit-form h3{font-size:14px;margin-bottom:8px}
pre{font-size:12px;white-space:pre-wrap;word-break:break-all;color:var(--text-muted)}
.confirm{position:fixed;inset:0;background:rgba(0,0,0,.6);display:flex;align-items:center;justify-content:center;z-index:300}
.confirm .card{min-width:320px}
.log-panel{position:fixed;right:0;top:0;bottom:0;width:480px;background:var(--surface);
  border-left:1px solid var(--border);overflow-y:auto;padding:16px;z-index:200}
.log-entry{display:flex;gap:8px;font-size:12px;padding:6px 0;border-bottom:1px solid rgba(51,65,85,.5);align-items:center}
.log-time{color:var(--text-dim)}
.log-status.s2xx{color:var(--success)}
.log-status.s4xx{color:var(--warning)}
.log-status.s5xx{color:var(--danger)}
.log-url{flex:1;word-break:break-all}
.log-empty{color:var(--text-dim);font-size:13px;padding:24px;text-align:center}
.badge{padding:2px 8px;border-radius:99px;font-size:11px;font-weight:600;background:var(--danger);color:#fff}
</style>
</head>
<body>
<div class="header">
  <h1>🏥 Clinic Console</h1>
  {{if .LoggedIn}}
  <span class="status-bar logged-in">Logged in as {{.Email}}{{if not .TokenExpiresAt.IsZero}} (token expires {{.TokenExpiresAt.Format "15:04"}}){{end}}</span>
  {{else}}
  <span class="status-bar logged-out">Not logged in. Register or login to get started.</span>
  {{end}}
  <form method="post" action="/log/toggle" class="inline">
    <button class="btn btn-outline btn-sm">📋 API Log {{if .LogUnread}}<span class="badge">{{.LogUnread}}</span>{{end}}</button>
  </form>
</div>

<div class="section grid">
  <div class="card">
    <h2>Register</h2>
    <form method="post" action="/auth/register">
      <label>Name</label><input type="text" name="name">
      <label>Email</label><input type="email" name="email">
      <label>Password</label><input type="password" name="password">
      <div style="margin-top:12px"><button class="btn btn-primary">Register</button></div>
    </form>
    {{template "msg" index .Messages "register"}}
  </div>
  <div class="card">
    <h2>Login</h2>
    <form method="post" action="/auth/login">
      <label>Email</label><input type="email" name="email" value="{{.LoginEmail}}">
      <label>Password</label><input type="password" name="password">
      <div style="margin-top:12px"><button class="btn btn-primary">Login</button></div>
    </form>
    {{if .LoggedIn}}<form method="post" action="/auth/logout" style="margin-top:8px"><button class="btn btn-outline btn-sm">Logout</button></form>{{end}}
    {{template "msg" index .Messages "login"}}
  </div>
</div>

{{if .LoggedIn}}
<div class="section">
  <h2>🔧 Quick Actions</h2>
  <div class="card">
    <div class="toolbar">
      <form method="post" action="/toolbar/patients" class="inline"><button class="btn btn-outline btn-sm">All Patients</button></form>
      <form method="post" action="/toolbar/patients" class="inline"><input type="hidden" name="by" value="id"><input type="number" name="id" placeholder="Patient ID"><button class="btn btn-outline btn-sm">Get Patient</button></form>
      <form method="post" action="/toolbar/doctors" class="inline"><button class="btn btn-outline btn-sm">All Doctors</button></form>
      <form method="post" action="/toolbar/doctors" class="inline"><input type="hidden" name="by" value="id"><input type="number" name="id" placeholder="Doctor ID"><button class="btn btn-outline btn-sm">Get Doctor</button></form>
      <form method="post" action="/toolbar/mappings" class="inline"><button class="btn btn-outline btn-sm">All Mappings</button></form>
      <form method="post" action="/toolbar/mappings" class="inline"><input type="hidden" name="by" value="id"><input type="number" name="id" placeholder="Patient ID"><button class="btn btn-outline btn-sm">Doctors for Patient</button></form>
    </div>
    {{template "msg" index .Messages "toolbar"}}
    {{template "panel" (panelOf "toolbar" (index .Panels "toolbar"))}}
  </div>
</div>

<div class="section">
  <h2>🧑 Patients
    <form method="post" action="/forms/patient/toggle" class="inline"><button class="btn btn-primary btn-sm">+ Add Patient</button></form>
    <form method="post" action="/patients/refresh" class="inline"><button class="btn btn-outline btn-sm">Refresh</button></form>
  </h2>
  <div class="card">
    {{if index .Forms "patient"}}
    <form method="post" action="/patients">
      <div class="form-row">
        <div><label>Name</label><input type="text" name="name" value="{{.PatientDraft.Name}}"></div>
        <div><label>Age</label><input type="number" name="age" value="{{.PatientDraft.Age}}"></div>
        <div><label>Gender</label><select name="gender">{{range genders}}<option value="{{.}}" {{if eq $.PatientDraft.Gender .}}selected{{end}}>{{.}}</option>{{end}}</select></div>
      </div>
      <div class="form-row">
        <div><label>Phone</label><input type="text" name="phone" value="{{.PatientDraft.Phone}}"></div>
        <div><label>Email</label><input type="email" name="email" value="{{.PatientDraft.Email}}"></div>
      </div>
      <label>Address</label><input type="text" name="address" value="{{.PatientDraft.Address}}">
      <label>Medical History</label><textarea name="medical_history">{{.PatientDraft.MedicalHistory}}</textarea>
      <div style="margin-top:12px"><button class="btn btn-success">Create</button></div>
    </form>
    {{end}}
    {{template "msg" index .Messages "patient"}}
    <table>
      <thead><tr><th>ID</th><th>Name</th><th>Age</th><th>Gender</th><th>Phone</th><th>Email</th><th>Actions</th></tr></thead>
      <tbody>
      {{range .Patients}}
        <tr>
          <td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Age}}</td><td>{{.Gender}}</td>
          <td>{{or .Phone "-"}}</td><td>{{or .Email "-"}}</td>
          <td class="actions">
            <form method="post" action="/patients/{{.ID}}/view"><button class="btn btn-info btn-sm">View</button></form>
            <form method="post" action="/patients/{{.ID}}/edit"><button class="btn btn-warning btn-sm">Edit</button></form>
            <form method="post" action="/patients/{{.ID}}/delete"><button class="btn btn-danger btn-sm">Delete</button></form>
          </td>
        </tr>
      {{end}}
      </tbody>
    </table>
    {{template "panel" (panelOf "patient-detail" (index .Panels "patient-detail"))}}
    {{with .PatientEdit}}
    <div class="edit-form">
      <h3>Edit Patient #{{.ID}}</h3>
      <form method="post" action="/patients/{{.ID}}/save">
        <div class="form-row">
          <div><label>Name</label><input type="text" name="name" value="{{.Name}}"></div>
          <div><label>Age</label><input type="number" name="age" value="{{.Age}}"></div>
          <div><label>Gender</label><select name="gender">{{$g := .Gender}}{{range genders}}<option value="{{.}}" {{if eq $g .}}selected{{end}}>{{.}}</option>{{end}}</select></div>
        </div>
        <div class="form-row">
          <div><label>Phone</label><input type="text" name="phone" value="{{.Phone}}"></div>
          <div><label>Email</label><input type="email" name="email" value="{{.Email}}"></div>
        </div>
        <label>Address</label><input type="text" name="address" value="{{.Address}}">
        <label>Medical History</label><textarea name="medical_history">{{.MedicalHistory}}</textarea>
        <div style="margin-top:12px"><button class="btn btn-success">Save</button></div>
      </form>
      <form method="post" action="/panels/patient-edit/close" style="margin-top:8px"><button class="btn btn-outline btn-sm">Cancel</button></form>
    </div>
    {{end}}
  </div>
</div>

<div class="section">
  <h2>🩺 Doctors
    <form method="post" action="/forms/doctor/toggle" class="inline"><button class="btn btn-primary btn-sm">+ Add Doctor</button></form>
    <form method="post" action="/doctors/refresh" class="inline"><button class="btn btn-outline btn-sm">Refresh</button></form>
  </h2>
  <div class="card">
    {{if index .Forms "doctor"}}
    <form method="post" action="/doctors">
      <div class="form-row">
        <div><label>Name</label><input type="text" name="name" value="{{.DoctorDraft.Name}}"></div>
        <div><label>Specialization</label><input type="text" name="specialization" value="{{.DoctorDraft.Specialization}}"></div>
        <div><label>Experience (years)</label><input type="number" name="experience_years" value="{{.DoctorDraft.ExperienceYears}}"></div>
      </div>
      <div class="form-row">
        <div><label>Phone</label><input type="text" name="phone" value="{{.DoctorDraft.Phone}}"></div>
        <div><label>Email</label><input type="email" name="email" value="{{.DoctorDraft.Email}}"></div>
      </div>
      <div style="margin-top:12px"><button class="btn btn-success">Create</button></div>
    </form>
    {{end}}
    {{template "msg" index .Messages "doctor"}}
    <table>
      <thead><tr><th>ID</th><th>Name</th><th>Specialization</th><th>Experience</th><th>Phone</th><th>Email</th><th>Actions</th></tr></thead>
      <tbody>
      {{range .Doctors}}
        <tr>
          <td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Specialization}}</td><td>{{.ExperienceYears}} yrs</td>
          <td>{{or .Phone "-"}}</td><td>{{or .Email "-"}}</td>
          <td class="actions">
            <form method="post" action="/doctors/{{.ID}}/view"><button class="btn btn-info btn-sm">View</button></form>
            <form method="post" action="/doctors/{{.ID}}/edit"><button class="btn btn-warning btn-sm">Edit</button></form>
            <form method="post" action="/doctors/{{.ID}}/delete"><button class="btn btn-danger btn-sm">Delete</button></form>
          </td>
        </tr>
      {{end}}
      </tbody>
    </table>
    {{template "panel" (panelOf "doctor-detail" (index .Panels "doctor-detail"))}}
    {{with .DoctorEdit}}
    <div class="edit-form">
      <h3>Edit Doctor #{{.ID}}</h3>
      <form method="post" action="/doctors/{{.ID}}/save">
        <div class="form-row">
          <div><label>Name</label><input type="text" name="name" value="{{.Name}}"></div>
          <div><label>Specialization</label><input type="text" name="specialization" value="{{.Specialization}}"></div>
          <div><label>Experience</label><input type="number" name="experience_years" value="{{.ExperienceYears}}"></div>
        </div>
        <div class="form-row">
          <div><label>Phone</label><input type="text" name="phone" value="{{.Phone}}"></div>
          <div><label>Email</label><input type="email" name="email" value="{{.Email}}"></div>
        </div>
        <div style="margin-top:12px"><button class="btn btn-success">Save</button></div>
      </form>
      <form method="post" action="/panels/doctor-edit/close" style="margin-top:8px"><button class="btn btn-outline btn-sm">Cancel</button></form>
    </div>
    {{end}}
  </div>
</div>

<div class="section">
  <h2>🔗 Patient-Doctor Mappings
    <form method="post" action="/forms/mapping/toggle" class="inline"><button class="btn btn-primary btn-sm">+ Assign Doctor</button></form>
    <form method="post" action="/mappings/refresh" class="inline"><button class="btn btn-outline btn-sm">Refresh</button></form>
  </h2>
  <div class="card">
    {{if index .Forms "mapping"}}
    <form method="post" action="/mappings">
      <div class="form-row">
        <div><label>Patient</label><select name="patient">{{range .PatientOptions}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select></div>
        <div><label>Doctor</label><select name="doctor">{{range .DoctorOptions}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select></div>
      </div>
      <div style="margin-top:12px"><button class="btn btn-success">Assign</button></div>
    </form>
    {{end}}
    <form method="post" action="/mappings/lookup" class="toolbar" style="margin-top:12px">
      <input type="number" name="patient_id" placeholder="Patient ID"><button class="btn btn-outline btn-sm">Doctors for Patient</button>
    </form>
    {{template "msg" index .Messages "mapping"}}
    <table>
      <thead><tr><th>ID</th><th>Patient</th><th>Doctor</th><th>Assigned</th><th>Actions</th></tr></thead>
      <tbody>
      {{range .Mappings}}
        <tr>
          <td>{{.ID}}</td>
          <td>{{.PatientName}} (ID: {{.Patient}})</td>
          <td>{{.DoctorName}} (ID: {{.Doctor}})</td>
          <td>{{.CreatedDate}}</td>
          <td class="actions"><form method="post" action="/mappings/{{.ID}}/delete"><button class="btn btn-danger btn-sm">Delete</button></form></td>
        </tr>
      {{end}}
      </tbody>
    </table>
    {{template "panel" (panelOf "mapping-detail" (index .Panels "mapping-detail"))}}
  </div>
</div>
{{end}}

{{with .Confirm}}
<div class="confirm">
  <div class="card">
    <h2>{{.Text}}</h2>
    <div class="actions">
      <form method="post" action="{{.Action}}"><input type="hidden" name="confirm" value="yes"><button class="btn btn-danger">OK</button></form>
      <form method="post" action="/confirm/cancel"><button class="btn btn-outline">Cancel</button></form>
    </div>
  </div>
</div>
{{end}}

{{if .LogOpen}}
<div class="log-panel">
  <h2 style="display:flex;gap:8px;align-items:center;margin-bottom:12px">📋 API Log
    <form method="post" action="/log/clear" class="inline"><button class="btn btn-outline btn-sm">Clear</button></form>
    <form method="post" action="/log/toggle" class="inline"><button class="btn btn-outline btn-sm">Close</button></form>
  </h2>
  {{range .LogEntries}}
  <div class="log-entry">
    <span class="log-time">{{.Time.Format "15:04:05"}}</span>
    <span class="log-method">{{.Method}}</span>
    <span class="log-status {{.StatusClass}}">{{.Status}}</span>
    <span class="log-url">{{.Path}}</span>
    {{if .HasDetails}}<form method="post" action="/log/{{.ID}}/toggle" class="inline"><button class="btn btn-outline btn-sm">[details]</button></form>{{end}}
  </div>
  {{if .Expanded}}
  <div class="log-body">
    {{with .RequestText}}<pre><b>Request:</b> {{.}}</pre>{{end}}
    {{with .ResponseText}}<pre><b>Response:</b> {{.}}</pre>{{end}}
  </div>
  {{end}}
  {{else}}
  <div class="log-empty">No requests yet. Interact with the API to see logs here.</div>
  {{end}}
</div>
{{end}}

<script>
document.querySelectorAll('.msg[data-ttl]').forEach(function(el){
  setTimeout(function(){ el.remove(); }, parseInt(el.dataset.ttl, 10) || 0);
});
</script>
</body>
</html>
`
