package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an audited action.
type EventType string

const (
	EventAuthorizationDenied  EventType = "authorization_denied"
	EventDocumentGenerated    EventType = "document_generated"
	EventDocumentTailored     EventType = "document_tailored"
	EventQuotaExhausted       EventType = "quota_exhausted"
	EventTokenUsage           EventType = "token_usage"
	EventApplicationSubmitted EventType = "application_submitted"
	EventUserChanged          EventType = "user_changed"
	EventRateLimitTriggered   EventType = "rate_limit_triggered"
)

// Event is a single audit record.
type Event struct {
	Timestamp   time.Time              `json:"timestamp"`
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Level       string                 `json:"level"`
	Event       EventType              `json:"event"`
	UserID      string                 `json:"user_id,omitempty"`
	CompanyID   string                 `json:"company_id,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// PersistFunc stores an event somewhere durable. It runs off the request path.
type PersistFunc func(ctx context.Context, event Event) error

// Logger writes audit events through zap and optionally persists them.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	persistFunc PersistFunc
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
	defaultOnce   sync.Once
)

// Init builds the process-wide audit logger.
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	l := &Logger{
		zapLogger:   zl,
		serviceName: serviceName,
		environment: environment,
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return l
}

// NewWithZap wraps an existing zap logger; tests pass zap.NewNop() or an observer core.
func NewWithZap(zl *zap.Logger, serviceName string) *Logger {
	return &Logger{zapLogger: zl, serviceName: serviceName, environment: getEnvironment()}
}

// Default returns the process-wide logger, creating one on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		if current() == nil {
			Init("cv-generator-backend", getEnvironment())
		}
	})
	return current()
}

func current() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

// SetPersistFunc enables durable storage of events.
func (l *Logger) SetPersistFunc(f PersistFunc) {
	l.persistFunc = f
}

// Log writes event. Persistence happens in a goroutine with its own timeout.
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	level := zapcore.InfoLevel
	switch event.Event {
	case EventQuotaExhausted, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	case EventAuthorizationDenied:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.CompanyID != "" {
		fields = append(fields, zap.String("company_id", event.CompanyID))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)

	if l.persistFunc != nil {
		go func(e Event) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := l.persistFunc(ctx, e); err != nil {
				l.zapLogger.Error("Failed to persist audit event", zap.Error(err))
			}
		}(event)
	}
}

// LogDenied records a rejected authorization decision. extra is merged into
// the event details.
func (l *Logger) LogDenied(ctx context.Context, userID, companyID, action, reason string, extra map[string]interface{}) {
	details := map[string]interface{}{"action": action, "reason": reason}
	for k, v := range extra {
		details[k] = v
	}
	l.Log(ctx, Event{
		Event:     EventAuthorizationDenied,
		UserID:    userID,
		CompanyID: companyID,
		Details:   details,
	})
}

// LogTokenUsage records LLM token counts for a generation.
func (l *Logger) LogTokenUsage(ctx context.Context, userID, model string, input, output, total int64) {
	l.Log(ctx, Event{
		Event:  EventTokenUsage,
		UserID: userID,
		Details: map[string]interface{}{
			"model":         model,
			"input_tokens":  input,
			"output_tokens": output,
			"total_tokens":  total,
		},
	})
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// HashValue returns a short SHA-256 prefix so identifiers can be logged without PII.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func getEnvironment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
