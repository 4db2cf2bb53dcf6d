package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolwire/internal/domain"
)

func newTestLogger(t *testing.T) *SQLiteAuditLogger {
	t.Helper()
	a, err := NewSQLiteAuditLogger(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAuditLogAndRecent(t *testing.T) {
	a := newTestLogger(t)
	ctx := context.Background()

	require.NoError(t, a.Log(ctx, domain.AuditEvent{
		Type:   domain.AuditGeneration,
		Detail: map[string]string{"provider": "local", "success": "true"},
	}))
	require.NoError(t, a.Log(ctx, domain.AuditEvent{
		Type:   domain.AuditToolExec,
		Detail: map[string]string{"tool": "get_time", "success": "true"},
	}))

	events, err := a.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, domain.AuditToolExec, events[0].Type)
	assert.Equal(t, "get_time", events[0].Detail["tool"])
	assert.Equal(t, domain.AuditGeneration, events[1].Type)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAuditRecentLimit(t *testing.T) {
	a := newTestLogger(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Log(ctx, domain.AuditEvent{Type: domain.AuditGeneration}))
	}

	events, err := a.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestAuditReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	a, err := NewSQLiteAuditLogger(path)
	require.NoError(t, err)
	require.NoError(t, a.Log(ctx, domain.AuditEvent{Type: domain.AuditToolExec}))
	require.NoError(t, a.Close())

	a, err = NewSQLiteAuditLogger(path)
	require.NoError(t, err)
	defer a.Close()

	events, err := a.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
