package orchestration

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/player"
)

const instrumentationName = "github.com/agbru/easeplay/internal/orchestration"

func tracer() trace.Tracer { return otel.Tracer(instrumentationName) }

// tracingObserver opens one span per play session, parented on the context
// of the transition that started it. All methods run on the loop goroutine.
type tracingObserver struct {
	parent context.Context
	span   trace.Span
}

var _ player.Observer = (*tracingObserver)(nil)

func newTracingObserver() *tracingObserver {
	return &tracingObserver{parent: context.Background()}
}

func (o *tracingObserver) setParent(ctx context.Context) {
	if ctx != nil {
		o.parent = ctx
	}
}

func (o *tracingObserver) SessionStarted(state player.State, f easing.Factors, interval time.Duration) {
	o.end("superseded")
	_, o.span = tracer().Start(o.parent, "easeplay.session", trace.WithAttributes(
		attribute.String("easeplay.state", state.String()),
		attribute.Int("easeplay.from", f.Start),
		attribute.Int("easeplay.to", f.End),
		attribute.Float64("easeplay.total_ms", f.TotalMs),
		attribute.Int64("easeplay.interval_ms", interval.Milliseconds()),
	))
}

func (o *tracingObserver) ValueReported(int, float64) {}

func (o *tracingObserver) TickDropped() {
	if o.span != nil {
		o.span.AddEvent("tick.dropped")
	}
}

func (o *tracingObserver) SessionCompleted(elapsedMs float64) {
	if o.span != nil {
		o.span.SetAttributes(attribute.Float64("easeplay.elapsed_ms", elapsedMs))
		o.span.SetStatus(codes.Ok, "")
	}
	o.end("completed")
}

func (o *tracingObserver) SessionStopped(elapsedMs float64) {
	if o.span != nil {
		o.span.SetAttributes(attribute.Float64("easeplay.elapsed_ms", elapsedMs))
	}
	o.end("stopped")
}

func (o *tracingObserver) end(reason string) {
	if o.span == nil {
		return
	}
	o.span.AddEvent("session." + reason)
	o.span.End()
	o.span = nil
}
