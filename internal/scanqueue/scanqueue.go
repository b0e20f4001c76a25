// Package scanqueue emits best-effort interaction events to the downstream
// analytics pipeline. Emission must never fail or block a caller's response:
// emitters swallow and log their own errors.
package scanqueue

import (
	"context"
	"time"
)

// Event kinds.
const (
	KindBadgeScanned     = "badge_scanned"
	KindAttendeeIngested = "attendee_ingested"
)

// Event is one observed interaction. Key is the stable identifier used for
// downstream deduplication and partition grouping.
type Event struct {
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id"`
	Device     string    `json:"device,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key returns the grouping/dedup key for the event.
func (e Event) Key() string {
	return e.UserID
}

// Emitter publishes events fire-and-forget. Implementations must return
// quickly and must not surface delivery errors to the caller.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Nop discards every event. Used when no queue is configured.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
