package events

import (
	"time"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Event type codes used as NATS subject suffixes (events.<type>).
const (
	TypeDecisionMade = "decision_made"
	TypeWatchCreated = "watch_created"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "watch_created").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDecisionMade records one decision outcome for a session.
func NewDecisionMade(sessionID string, d store.Decision) Event {
	data := map[string]interface{}{
		"session_id": sessionID,
		"action":     d.Action,
		"rationale":  d.Rationale,
	}
	if d.Pick != nil {
		data["pick_id"] = d.Pick.ID
		data["pick_title"] = d.Pick.Title
		data["pick_score"] = d.Pick.Score
	}
	if len(d.Blockers) > 0 {
		data["blockers"] = d.Blockers
	}
	return BaseEvent{Type: TypeDecisionMade, Data: data, OccurredAt: time.Now()}
}

// NewWatchCreated records a newly created market watch. Only emitted on actual
// creation; an idempotent re-ensure of the same content is not an event.
func NewWatchCreated(sessionID string, spec store.WatchSpec) Event {
	return BaseEvent{
		Type: TypeWatchCreated,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"watch_id":   spec.ID,
			"watch_key":  spec.Key,
			"goal_type":  spec.GoalType,
			"must_have":  spec.MustHave,
			"cadence":    spec.Cadence,
			"sources":    spec.Sources,
		},
		OccurredAt: time.Now(),
	}
}
