package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ============================================================
// API LOG STORE (clinic_console_api_log)
// ============================================================

const createLogTableSQL = `CREATE TABLE IF NOT EXISTS clinic_console_api_log (
	id            BIGINT AUTO_INCREMENT PRIMARY KEY,
	entry_id      CHAR(36)     NOT NULL,
	method        VARCHAR(10)  NOT NULL,
	path          VARCHAR(255) NOT NULL,
	status        INT          NOT NULL,
	request_body  TEXT,
	response_body MEDIUMTEXT,
	created_at    TIMESTAMP(3) DEFAULT CURRENT_TIMESTAMP(3),
	UNIQUE KEY uk_entry (entry_id),
	INDEX idx_status (status),
	INDEX idx_created (created_at)
)`

// saveTimeout bounds each insert; Save runs on the request path.
const saveTimeout = 2 * time.Second

// LogStore mirrors activity log entries into MySQL so they survive restarts.
type LogStore struct {
	db          *sql.DB
	saveTimeout time.Duration
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db, saveTimeout: saveTimeout}
}

func openLogDB(cfg Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *LogStore) Init() error {
	if _, err := s.db.Exec(createLogTableSQL); err != nil {
		return fmt.Errorf("create clinic_console_api_log table: %w", err)
	}
	log.Println("✅ API log table ready")
	return nil
}

// Save implements LogSink.
func (s *LogStore) Save(e LogEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT INTO clinic_console_api_log
		(entry_id, method, path, status, request_body, response_body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Method, e.Path, e.Status, string(e.Request), string(e.Response), e.Time)
	if err != nil {
		return fmt.Errorf("insert api log: %w", err)
	}
	return nil
}

func (s *LogStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type LogFilter struct {
	Method string
	Status int
	Limit  int
}

// List returns the newest entries first.
func (s *LogStore) List(ctx context.Context, f LogFilter) ([]LogEntry, error) {
	query := `SELECT entry_id, method, path, status,
		COALESCE(request_body, ''), COALESCE(response_body, ''), created_at
		FROM clinic_console_api_log WHERE 1=1`
	var args []interface{}

	if f.Method != "" {
		query += " AND method = ?"
		args = append(args, f.Method)
	}
	if f.Status > 0 {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query api log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var reqBody, resBody string
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.Status, &reqBody, &resBody, &createdAt); err != nil {
			log.Printf("⚠️ scan api log: %v", err)
			continue
		}
		e.Time = createdAt
		if reqBody != "" {
			e.Request = []byte(reqBody)
		}
		if resBody != "" {
			e.Response = []byte(resBody)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
