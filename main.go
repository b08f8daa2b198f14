package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"html/template"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================
// CONFIG
// ============================================================

type Config struct {
	APIURL      string
	Host        string
	Port        string
	HTTPTimeout time.Duration
	MessageTTL  time.Duration
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	Token       string
}

func loadConfig() Config {
	godotenv.Load() // ignore error, env vars still apply without a .env
	return Config{
		APIURL:      getEnv("CLINIC_API_URL", "http://localhost:8000/api"),
		Host:        getEnv("HOST", "localhost"),
		Port:        getEnv("PORT", "8090"),
		HTTPTimeout: getEnvSeconds("HTTP_TIMEOUT", 30),
		MessageTTL:  getEnvSeconds("MESSAGE_TTL", 5),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "root"),
		DBPass:      getEnv("DB_PASS", ""),
		DBName:      os.Getenv("DB_NAME"),
		Token:       os.Getenv("CLINIC_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// ============================================================
// APP
// ============================================================

type App struct {
	console *Console
	store   *LogStore
	cfg     Config
	page    *template.Template
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if a.store != nil {
		dbStatus = "ok"
		if err := a.store.Ping(r.Context()); err != nil {
			dbStatus = err.Error()
		}
	}

	sessionStatus := "logged-out"
	if a.console.session.LoggedIn() {
		sessionStatus = "logged-in"
	}

	jsonResponse(w, map[string]interface{}{
		"status":   "running",
		"api":      a.cfg.APIURL,
		"database": dbStatus,
		"session":  sessionStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// ============================================================
// LOGS HANDLER
// ============================================================

func (a *App) handleLogs(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("method")
	status, _ := strconv.Atoi(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 100
	}

	var logs []LogEntry
	if a.store != nil {
		var err error
		logs, err = a.store.List(r.Context(), LogFilter{Method: method, Status: status, Limit: limit})
		if err != nil {
			jsonError(w, err.Error(), 500)
			return
		}
	} else {
		logs = filterEntries(a.console.log.Entries(), method, status, limit)
	}
	if logs == nil {
		logs = []LogEntry{}
	}

	jsonResponse(w, map[string]interface{}{
		"total": len(logs),
		"logs":  logs,
	})
}

// filterEntries applies the /api/logs filter to in-memory entries, newest first.
func filterEntries(entries []LogEntry, method string, status, limit int) []LogEntry {
	var out []LogEntry
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := entries[i]
		if method != "" && e.Method != method {
			continue
		}
		if status > 0 && e.Status != status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ============================================================
// JSON HELPERS
// ============================================================

func jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// originGuard lets only the console's own page drive it, since the session
// token lives server-side. Cross-origin POSTs get 403 and no
// Access-Control-Allow-Origin is sent, so other sites cannot read /api/logs.
// Requests carrying neither Origin nor Referer (curl, scripts) pass.
func originGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sameOrigin(r) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				log.Printf("❌ cross-origin %s %s from %q", r.Method, r.URL.Path, requestOrigin(r))
				http.Error(w, "cross-origin request refused", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	return r.Header.Get("Referer")
}

func sameOrigin(r *http.Request) bool {
	origin := requestOrigin(r)
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, r.Host)
}

// ============================================================
// WIRING
// ============================================================

// newApp builds the console around an optional MySQL handle (nil disables the
// persisted log).
func newApp(cfg Config, db *sql.DB) (*App, error) {
	var store *LogStore
	var sink LogSink
	if db != nil {
		store = NewLogStore(db)
		if err := store.Init(); err != nil {
			log.Printf("⚠️ %v", err)
		}
		sink = store
	}

	session := NewSession()
	activity := NewActivityLog(sink)
	api, err := NewAPIClient(cfg.APIURL, cfg.HTTPTimeout, session, activity)
	if err != nil {
		return nil, err
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	return &App{
		console: NewConsole(api, session, activity, NewMessages(cfg.MessageTTL)),
		store:   store,
		cfg:     cfg,
		page:    page,
	}, nil
}

func (a *App) handler() http.Handler {
	return originGuard(a.routes())
}

func runServer(ctx context.Context, cfg Config) error {
	var db *sql.DB
	if cfg.DBName != "" {
		var err error
		db, err = openLogDB(cfg)
		if err != nil {
			log.Printf("⚠️ API log persistence disabled: %v", err)
			db = nil
		} else {
			log.Println("✅ Database connected:", cfg.DBName)
			defer db.Close()
		}
	}

	app, err := newApp(cfg, db)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: app.handler()}

	log.Printf("🚀 Clinic console running on http://%s (API %s)", addr, cfg.APIURL)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ============================================================
// MAIN
// ============================================================

func main() {
	if err := newRootCmd(loadConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}
