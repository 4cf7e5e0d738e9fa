package tasklock

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const (
	EventAcquired = "lock.acquired"
	EventReleased = "lock.released"
)

// ReleaseReason tells subscribers why a lock disappeared.
type ReleaseReason string

const (
	ReasonReleased  ReleaseReason = "released"
	ReasonTakenOver ReleaseReason = "taken_over"
	ReasonSubmitted ReleaseReason = "submitted"
	ReasonConfirmed ReleaseReason = "confirmed"
	ReasonReset     ReleaseReason = "reset"
)

// Acquired is raised when a user obtains a lock, including takeovers.
type Acquired struct {
	TaskID   kernel.UUID `json:"taskId"`
	UserID   kernel.UUID `json:"userId"`
	Takeover bool        `json:"takeover"`
	At       time.Time   `json:"at"`
}

func (e Acquired) EventType() string        { return EventAcquired }
func (e Acquired) AggregateID() kernel.UUID { return e.TaskID }
func (e Acquired) OccurredAt() time.Time    { return e.At }

// Released is raised when a lock is deleted.
type Released struct {
	TaskID kernel.UUID   `json:"taskId"`
	UserID kernel.UUID   `json:"userId"`
	Reason ReleaseReason `json:"reason"`
	By     *kernel.UUID  `json:"by,omitempty"`
	At     time.Time     `json:"at"`
}

func (e Released) EventType() string        { return EventReleased }
func (e Released) AggregateID() kernel.UUID { return e.TaskID }
func (e Released) OccurredAt() time.Time    { return e.At }
