package events

import (
	"log/slog"
	"time"
)

// defaultBuffer sizes the inbox for a burst of gate scans; at sustained
// overload events are dropped rather than stalling the gate.
const defaultBuffer = 256

// Publisher hands events to the background worker over a buffered channel.
// Emit never blocks: the gate response must not wait on the event pipeline.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher constructs a Publisher with the default buffer.
func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, defaultBuffer),
		logger: logger,
	}
}

// Emit enqueues an event for background delivery, stamping the time when
// unset. Events are dropped when the buffer is full.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("entry event dropped, inbox full",
				"decision", event.Decision,
				"reader_id", event.ReaderID,
			)
		}
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
