package domain

import (
	"context"
	"time"
)

// AuditEventType classifies audit log entries.
type AuditEventType string

const (
	AuditGeneration AuditEventType = "generation"
	AuditToolExec   AuditEventType = "tool_exec"
)

// AuditEvent records one engine action. Detail carries names and counters
// only, never prompt or result content.
type AuditEvent struct {
	Type      AuditEventType    `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// AuditLogger is an optional sink for engine actions.
type AuditLogger interface {
	Log(ctx context.Context, event AuditEvent) error
	Close() error
}
