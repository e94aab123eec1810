package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INTERVIEW_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation used across the app.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
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

const (
	TypeInterviewCompleted = "INTERVIEW_COMPLETED"
)

// NewInterviewCompleted is emitted once per session, right after the final
// decision is computed and the closing message is queued.
func NewInterviewCompleted(sessionID, candidateName, report string, finalScore float64, verdict string) BaseEvent {
	return BaseEvent{
		Type: TypeInterviewCompleted,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"candidate_name": candidateName,
			"report":         report,
			"final_score":    finalScore,
			"verdict":        verdict,
		},
		OccurredAt: time.Now(),
	}
}
