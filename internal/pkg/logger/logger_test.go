package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestCtx_AddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "order-service", "debug")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	Ctx(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order-service", line["service"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
}

func TestCtx_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "order-service", "info")

	Ctx(context.Background()).Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Ctx(context.Background()).Info().Msg("shown")
	assert.NotContains(t, buf.String(), "trace_id")
	assert.Contains(t, buf.String(), "shown")
}
