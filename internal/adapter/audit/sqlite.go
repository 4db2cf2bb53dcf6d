package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"toolwire/internal/domain"
	"toolwire/internal/infra/tracer"
)

// SQLiteAuditLogger implements domain.AuditLogger using SQLite. Events
// record what happened, never prompt or argument content.
type SQLiteAuditLogger struct {
	db *sql.DB
}

// NewSQLiteAuditLogger opens (or creates) a SQLite database at dbPath
// and runs the schema migration.
func NewSQLiteAuditLogger(dbPath string) (*SQLiteAuditLogger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &SQLiteAuditLogger{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			type       TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)
	`)
	return err
}

// Log implements domain.AuditLogger.
func (a *SQLiteAuditLogger) Log(ctx context.Context, event domain.AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	detailJSON, err := json.Marshal(event.Detail)
	if err != nil {
		return domain.NewDomainError("SQLiteAuditLogger.Log", domain.ErrAuditWrite, err.Error())
	}

	_, err = a.db.ExecContext(ctx,
		"INSERT INTO audit_events (type, detail, created_at) VALUES (?, ?, ?)",
		string(event.Type), string(detailJSON), event.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.NewDomainError("SQLiteAuditLogger.Log", domain.ErrAuditWrite, err.Error())
	}

	// Also emit as an OTel span event if a span is active.
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		attrs := make([]attribute.KeyValue, 0, len(event.Detail))
		for k, v := range event.Detail {
			attrs = append(attrs, tracer.StringAttr("audit."+k, v))
		}
		span.AddEvent("audit."+string(event.Type), trace.WithAttributes(attrs...))
	}

	return nil
}

// Recent returns up to limit events, newest first.
func (a *SQLiteAuditLogger) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := a.db.QueryContext(ctx,
		"SELECT type, detail, created_at FROM audit_events ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var typ, detailJSON, createdAt string
		if err := rows.Scan(&typ, &detailJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev := domain.AuditEvent{Type: domain.AuditEventType(typ)}
		if err := json.Unmarshal([]byte(detailJSON), &ev.Detail); err != nil {
			return nil, fmt.Errorf("decode audit detail: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			ev.Timestamp = ts
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the underlying database connection.
func (a *SQLiteAuditLogger) Close() error {
	return a.db.Close()
}

var _ domain.AuditLogger = (*SQLiteAuditLogger)(nil)
