package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_FieldsAndNames(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).Named("loader").With("run", "r1")

	logger.Info("batch loaded", "matches", 3, "err", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "loader" {
		t.Fatalf("logger name = %q, want loader", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["run"] != "r1" || fields["matches"] != int64(3) {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["err"] != "boom" {
		t.Fatalf("error field = %v, want boom", fields["err"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept: %+v", fields)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "row skipped")
	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
}

func TestNewWithWriter_RespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelWarn, ParseFormat("json"))
	logger.Info("hidden")
	logger.Warn("shown", "line", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"line":7`) {
		t.Fatalf("unexpected json output: %s", out)
	}

	if ParseFormat(" Console ") != FormatConsole || ParseFormat("") != FormatJSON {
		t.Fatalf("unexpected format parsing")
	}
}
