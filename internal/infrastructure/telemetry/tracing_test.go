package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetclinic/backend/internal/infrastructure/telemetry"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "ledger", "apply_document",
		telemetry.WithAttribute(telemetry.SpanAttrDirection, "consume"),
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ledger.apply_document", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, "consume", attrMap(spans[0].Attributes())[telemetry.SpanAttrDirection].AsString())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)
	documentID := uuid.New()

	_, span := telemetry.StartSpan(context.Background(), "document.create_invoice")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, "INV-2025-0001",
		telemetry.SpanAttrLineCount, 3,
		telemetry.SpanAttrHasDeviceFP, true,
		42, "ignored non-string key",
		telemetry.SpanAttrDocumentID, documentID,
		"orphan",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, "INV-2025-0001", attrs[telemetry.SpanAttrDocumentNumber].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrLineCount].AsInt64())
	assert.True(t, attrs[telemetry.SpanAttrHasDeviceFP].AsBool())
	assert.Equal(t, documentID.String(), attrs[telemetry.SpanAttrDocumentID].AsString())
	_, hasOrphan := attrs["orphan"]
	assert.False(t, hasOrphan)
}

func TestRecordErrorAndSetOK(t *testing.T) {
	sr := setupTestTracer(t)

	_, failed := telemetry.StartSpan(context.Background(), "failed")
	telemetry.RecordError(failed, errors.New("duplicate document number"))
	failed.End()

	_, ok := telemetry.StartSpan(context.Background(), "ok")
	telemetry.RecordError(ok, nil)
	telemetry.SetOK(ok)
	ok.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "duplicate document number", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "document.create_invoice")
	telemetry.AddEvent(span, "number_retry", telemetry.SpanAttrSeries, "INV")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "number_retry", events[0].Name)
	assert.Equal(t, "INV", attrMap(events[0].Attributes)[telemetry.SpanAttrSeries].AsString())
}

func TestNestedSpansShareTrace(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, parent := telemetry.StartSpan(context.Background(), "document.create_receiving_report")
	_, child := telemetry.StartSpan(ctx, "ledger.apply_document")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, telemetry.GetTraceID(ctx))

	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.SetOK(nil)
		telemetry.AddEvent(nil, "e")
	})
}
