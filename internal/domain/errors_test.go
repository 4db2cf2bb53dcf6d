package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Registry.Execute", ErrToolNotFound, "tool 'foo'")
	want := "Registry.Execute: tool 'foo': tool not found"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("Orchestrator.Resume", ErrRunNotPaused, "")
	want := "Orchestrator.Resume: run is not awaiting manual execution"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("Orchestrator.generate", ErrGenerationFailed, "connection refused")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Error("errors.Is should match ErrGenerationFailed")
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := NewDomainError("Registry.Register", ErrInvalidInput, "empty name")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should match *DomainError")
	}
	if de.Op != "Registry.Register" {
		t.Errorf("Op = %q, want %q", de.Op, "Registry.Register")
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(op, nil) should be nil")
	}
	err := WrapOp("Audit.Log", ErrAuditWrite)
	if !errors.Is(err, ErrAuditWrite) {
		t.Error("wrapped error should match the sentinel")
	}
}

// --- ErrorCode tests ---

func TestErrorCodeOf_DirectSentinel(t *testing.T) {
	assert.Equal(t, CodeToolNotFound, ErrorCodeOf(ErrToolNotFound))
	assert.Equal(t, CodeGenerationFailed, ErrorCodeOf(ErrGenerationFailed))
	assert.Equal(t, CodeConfigLoad, ErrorCodeOf(ErrConfigLoad))
	assert.Equal(t, CodeContextOverflow, ErrorCodeOf(ErrContextOverflow))
	assert.Equal(t, CodeRateLimit, ErrorCodeOf(ErrRateLimit))
	assert.Equal(t, CodeRunNotPaused, ErrorCodeOf(ErrRunNotPaused))
}

func TestErrorCodeOf_DomainError(t *testing.T) {
	err := NewDomainError("Registry.Execute", ErrToolNotFound, "tool 'foo'")
	assert.Equal(t, CodeToolNotFound, ErrorCodeOf(err))
}

func TestErrorCodeOf_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("load ./config.yaml: %w", ErrConfigLoad)
	assert.Equal(t, CodeConfigLoad, ErrorCodeOf(wrapped))
}

func TestErrorCodeOf_UnknownError(t *testing.T) {
	assert.Equal(t, CodeUnknown, ErrorCodeOf(fmt.Errorf("some random error")))
}

func TestErrorCodeOf_Nil(t *testing.T) {
	assert.Equal(t, CodeUnknown, ErrorCodeOf(nil))
}
