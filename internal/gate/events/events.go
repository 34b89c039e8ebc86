// Package events carries gate entry events from the scan hot path to a
// durable sink without adding latency to the gate response.
package events

import (
	"context"
	"time"
)

// Decision labels for entry events.
const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
)

// Event records one gate scan decision. Keep it transport-agnostic so sinks
// can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ReaderID  string    `json:"reader_id,omitempty"`
	Decision  string    `json:"decision"`
	VisitorID int64     `json:"visitor_id,omitempty"`
	TokenKind string    `json:"token_kind,omitempty"`
}

// Sink persists or forwards entry events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
