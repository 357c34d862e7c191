package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for the request ID
	RequestIDKey contextKey = "request_id"
	// ActorIDKey is the context key for the authenticated staff user
	ActorIDKey contextKey = "actor_id"
	// RoleKey is the context key for the authenticated user's role
	RoleKey contextKey = "role"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns the context and an enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withField(ctx, logger, RequestIDKey, requestID)
}

// WithActor stores the acting user and role. Either may be empty.
func WithActor(ctx context.Context, logger *zap.Logger, actorID, role string) (context.Context, *zap.Logger) {
	if actorID != "" {
		ctx, logger = withField(ctx, logger, ActorIDKey, actorID)
	}
	if role != "" {
		ctx, logger = withField(ctx, logger, RoleKey, role)
	}
	return ctx, logger
}

func withField(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := logger.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetActorID retrieves the acting user's ID from context
func GetActorID(ctx context.Context) string {
	return stringValue(ctx, ActorIDKey)
}

// GetRole retrieves the acting user's role from context
func GetRole(ctx context.Context) string {
	return stringValue(ctx, RoleKey)
}

// WithTraceContext adds trace_id and span_id from the active span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// ContextLogger injects trace and request fields into every entry.
//
//	logger.L(ctx).Info("invoice created", zap.String("invoice_number", n))
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
	// tagged is set when logger came from ctx and already carries the request fields
	tagged bool
}

// L returns a ContextLogger over the logger stored in ctx
func L(ctx context.Context) *ContextLogger {
	l, ok := ctx.Value(LoggerKey).(*zap.Logger)
	if !ok {
		l = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, logger: l, tagged: ok}
}

// WithLogger returns a ContextLogger over an explicit base logger
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

// For prefers the request logger in ctx and falls back to the given service logger
func For(ctx context.Context, fallback *zap.Logger) *ContextLogger {
	if _, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return L(ctx)
	}
	return WithLogger(ctx, fallback)
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}
	l = WithTraceContext(cl.ctx, l)
	if cl.tagged {
		return l
	}
	for _, key := range []contextKey{RequestIDKey, ActorIDKey, RoleKey} {
		if v := stringValue(cl.ctx, key); v != "" {
			l = l.With(zap.String(string(key), v))
		}
	}
	return l
}

// With creates a child ContextLogger with additional fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	base := cl.logger
	if base == nil {
		base = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, logger: base.With(fields...), tagged: cl.tagged}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.enrichedLogger().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.enrichedLogger().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.enrichedLogger().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.enrichedLogger().Error(msg, fields...) }

// Zap returns the enriched *zap.Logger for APIs that want one
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}
