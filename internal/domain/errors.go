package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine.
var (
	ErrToolNotFound     = fmt.Errorf("tool not found")
	ErrGenerationFailed = fmt.Errorf("generation failed")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrConfigLoad       = fmt.Errorf("failed to load configuration")
	ErrContextOverflow  = fmt.Errorf("context window exceeded")
	ErrRateLimit        = fmt.Errorf("rate limit exceeded")
	ErrAuthInvalid      = fmt.Errorf("authentication failed")
	ErrAuditWrite       = fmt.Errorf("audit log write failed")
	ErrRunNotPaused     = fmt.Errorf("run is not awaiting manual execution")
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op     string // operation name (e.g., "Orchestrator.Run")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for monitoring.
type ErrorCode string

const (
	CodeUnknown          ErrorCode = "UNKNOWN"
	CodeToolNotFound     ErrorCode = "TOOL_NOT_FOUND"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeConfigLoad       ErrorCode = "CONFIG_LOAD"
	CodeContextOverflow  ErrorCode = "CONTEXT_OVERFLOW"
	CodeRateLimit        ErrorCode = "RATE_LIMIT"
	CodeAuthInvalid      ErrorCode = "AUTH_INVALID"
	CodeAuditWrite       ErrorCode = "AUDIT_WRITE"
	CodeRunNotPaused     ErrorCode = "RUN_NOT_PAUSED"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrToolNotFound:     CodeToolNotFound,
	ErrGenerationFailed: CodeGenerationFailed,
	ErrInvalidInput:     CodeInvalidInput,
	ErrConfigLoad:       CodeConfigLoad,
	ErrContextOverflow:  CodeContextOverflow,
	ErrRateLimit:        CodeRateLimit,
	ErrAuthInvalid:      CodeAuthInvalid,
	ErrAuditWrite:       CodeAuditWrite,
	ErrRunNotPaused:     CodeRunNotPaused,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and walks the chain with errors.Is.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	if code, ok := errorCodeMap[err]; ok {
		return code
	}
	var de *DomainError
	if errors.As(err, &de) {
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeUnknown
}
