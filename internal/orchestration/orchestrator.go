package orchestration

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Runner is a background service sharing a session's lifetime, such as the
// metrics server.
type Runner interface {
	Run(ctx context.Context) error
}

// PlayOptions configures Play.
type PlayOptions struct {
	// Reverse plays towards the configured start via ReverseContinue.
	Reverse bool
	// Services run alongside the session and stop with it.
	Services []Runner
}

// Play runs one session to completion: it starts the loop and the
// services, requests Start (or ReverseContinue), waits for the completion
// result, then shuts everything down. Progress is shown by reporter until
// the update channel closes.
//
// Context errors are returned as-is so callers can map deadlines and
// interrupts to exit codes.
func Play(ctx context.Context, s *Session, opts PlayOptions, reporter ProgressReporter, out io.Writer) (SessionResult, error) {
	ctx, span := tracer().Start(ctx, "easeplay.play", trace.WithAttributes(
		attribute.Bool("easeplay.reverse", opts.Reverse),
	))
	defer span.End()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, s.Updates(), out)

	g.Go(func() error { return s.Run(gctx) })
	for _, svc := range opts.Services {
		svc := svc
		g.Go(func() error { return svc.Run(gctx) })
	}

	var result SessionResult
	playErr := func() error {
		transition := s.Start
		if opts.Reverse {
			transition = s.Reverse
		}
		if err := transition(gctx); err != nil {
			return err
		}
		select {
		case result = <-s.Done():
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	}()

	cancel()
	waitErr := g.Wait()
	displayWg.Wait()

	err := playErr
	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
	case waitErr != nil:
		err = waitErr
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	span.SetAttributes(
		attribute.Int("easeplay.final", result.Final),
		attribute.Int("easeplay.reported", result.Reported),
	)
	return result, nil
}
