package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestStartUsecaseSpan_UntracedContextIsUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "usecase.Test", attribute.Bool("reconcile.dry_run", true))
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsValid())
}

func TestStartUsecaseSpan_BlankNameKeepsParent(t *testing.T) {
	t.Parallel()

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	got, span := startUsecaseSpan(ctx, "  ")
	assert.Equal(t, ctx, got)
	assert.Equal(t, parent, span.SpanContext())
}
