package events

import "time"

const SuspensionLifecycleTopic = "ops.suspension.lifecycle.v1"

const (
	EventSuspensionCreated   = "suspension.created"
	EventSuspensionActivated = "suspension.activated"
	EventSuspensionRejected  = "suspension.rejected"
	EventSuspensionCompleted = "suspension.completed"
	EventEmployeeTerminated  = "employee.terminated"
)

type SuspensionLifecycleEvent struct {
	EventType       string     `json:"event_type"`
	SuspensionID    string     `json:"suspension_id,omitempty"`
	UserID          string     `json:"user_id"`
	ActorID         string     `json:"actor_id,omitempty"`
	Status          string     `json:"status,omitempty"`
	StrikeNumber    int        `json:"strike_number"`
	DeductionAmount string     `json:"deduction_amount,omitempty"`
	SuspensionEnd   *time.Time `json:"suspension_end,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	OccurredAt      time.Time  `json:"occurred_at"`
}
