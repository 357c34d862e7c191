package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	assert.NotNil(t, FromContext(context.Background()))

	wrong := context.WithValue(context.Background(), LoggerKey, "nope")
	assert.NotNil(t, FromContext(wrong))
}

func TestWithRequestIDAndActor(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-1")
	ctx, l = WithActor(ctx, l, "user-1", "frontdesk")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetActorID(ctx))
	assert.Equal(t, "frontdesk", GetRole(ctx))
	assert.Same(t, l, FromContext(ctx))

	l.Info("hello")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["actor_id"])
	assert.Equal(t, "frontdesk", fields["role"])
}

func TestWithActor_SkipsEmptyValues(t *testing.T) {
	ctx, _ := WithActor(context.Background(), zap.NewNop(), "", "")
	assert.Empty(t, GetActorID(ctx))
	assert.Empty(t, GetRole(ctx))
	assert.Nil(t, ctx.Value(LoggerKey))
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	assert.Same(t, base, WithTraceContext(context.Background(), base))

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	WithTraceContext(ctx, base).Info("traced")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestContextLogger_StoredLoggerNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	ctx, _ := WithRequestID(context.Background(), bufferLogger(&buf), "req-9")

	L(ctx).With(zap.String("invoice_number", "INV-2025-0001")).Info("created")

	out := buf.String()
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte(`"request_id"`)))
	assert.Contains(t, out, `"invoice_number":"INV-2025-0001"`)
}

func TestContextLogger_ExplicitLoggerGetsContextFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-2")
	ctx = context.WithValue(ctx, ActorIDKey, "user-2")

	WithLogger(ctx, bufferLogger(&buf)).Warn("stock below threshold")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-2"`)
	assert.Contains(t, out, `"actor_id":"user-2"`)
	assert.NotContains(t, out, `"role"`)
}

func TestContextLogger_NilAndNop(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Debug("d")
		cl.Info("i")
		cl.Warn("w")
		cl.Error("e")
		cl.With(zap.Int("n", 1)).Info("child")
	})
	require.NotNil(t, L(context.Background()).Zap())
}

func TestFor_PrefersRequestLogger(t *testing.T) {
	var reqBuf, svcBuf bytes.Buffer
	ctx, _ := WithRequestID(context.Background(), bufferLogger(&reqBuf), "req-3")

	For(ctx, bufferLogger(&svcBuf)).Info("from request")
	For(context.Background(), bufferLogger(&svcBuf)).Info("from service")

	assert.Contains(t, reqBuf.String(), "from request")
	assert.NotContains(t, reqBuf.String(), "from service")
	assert.Contains(t, svcBuf.String(), "from service")
}
