package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(zap.New(core), "test-service")

	l.LogTokenUsage(context.Background(), "user-1", "model-x", 10, 20, 30)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, string(EventTokenUsage), entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Contains(t, fields["details"], `"total_tokens":30`)
}

func TestDeniedIsErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(zap.New(core), "test-service")

	l.LogDenied(context.Background(), "user-1", "c1", "edit_user", "other company", map[string]interface{}{"resource_tenant": "c2"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "c1", fields["company_id"])
	assert.Contains(t, fields["details"], `"resource_tenant":"c2"`)
	assert.Contains(t, fields["details"], `"action":"edit_user"`)
}

func TestDefaultIsSharedAcrossGoroutines(t *testing.T) {
	got := make(chan *Logger, 8)
	for i := 0; i < 8; i++ {
		go func() { got <- Default() }()
	}
	first := <-got
	require.NotNil(t, first)
	for i := 1; i < 8; i++ {
		assert.Same(t, first, <-got)
	}
}

func TestPersistFuncRunsAsynchronously(t *testing.T) {
	l := NewWithZap(zap.NewNop(), "test-service")
	done := make(chan Event, 1)
	l.SetPersistFunc(func(ctx context.Context, e Event) error {
		done <- e
		return nil
	})

	l.Log(context.Background(), Event{Event: EventDocumentGenerated, UserID: "u"})

	select {
	case e := <-done:
		assert.Equal(t, EventDocumentGenerated, e.Event)
		assert.Equal(t, "test-service", e.Service)
	case <-time.After(2 * time.Second):
		t.Fatal("persist func was not called")
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Log(context.Background(), Event{Event: EventTokenUsage}) })
}

func TestHashValueIsStable(t *testing.T) {
	assert.Equal(t, HashValue("abc"), HashValue("abc"))
	assert.Len(t, HashValue("abc"), 16)
}
