package events

import (
	"context"
	"log/slog"
)

// Worker drains the publisher inbox and appends events to the sink. A sink
// failure is logged and the event is dropped; the entry log is best-effort
// and must never take the gate down with it.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker constructs a Worker.
func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to append entry event",
					"decision", event.Decision,
					"error", err,
				)
			}
		}
	}
}
