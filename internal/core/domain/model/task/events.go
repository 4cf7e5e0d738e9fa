package task

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
)

const (
	EventStatusChanged    = "task.status_changed"
	EventProgressSaved    = "task.progress_saved"
	EventCheckingSaved    = "task.checking_saved"
	EventCollectorChanged = "task.collector_changed"
	EventReset            = "task.reset"
)

// StatusChanged is raised by every lifecycle transition, including resets.
type StatusChanged struct {
	TaskID     kernel.UUID      `json:"taskId"`
	ShipmentID kernel.UUID      `json:"shipmentId"`
	From       lifecycle.Status `json:"from"`
	To         lifecycle.Status `json:"to"`
	By         *kernel.UUID     `json:"by,omitempty"`
	At         time.Time        `json:"at"`
}

func (e StatusChanged) EventType() string        { return EventStatusChanged }
func (e StatusChanged) AggregateID() kernel.UUID { return e.TaskID }
func (e StatusChanged) OccurredAt() time.Time    { return e.At }

// ProgressSaved is raised when picking or checking quantities were written.
type ProgressSaved struct {
	TaskID     kernel.UUID `json:"taskId"`
	ShipmentID kernel.UUID `json:"shipmentId"`
	UserID     kernel.UUID `json:"userId"`
	Lines      int         `json:"lines"`
	Checking   bool        `json:"checking"`
	At         time.Time   `json:"at"`
}

func (e ProgressSaved) EventType() string {
	if e.Checking {
		return EventCheckingSaved
	}
	return EventProgressSaved
}
func (e ProgressSaved) AggregateID() kernel.UUID { return e.TaskID }
func (e ProgressSaved) OccurredAt() time.Time    { return e.At }

// CollectorChanged is raised when a lock designates or replaces the collector.
type CollectorChanged struct {
	TaskID     kernel.UUID  `json:"taskId"`
	ShipmentID kernel.UUID  `json:"shipmentId"`
	Previous   *kernel.UUID `json:"previous,omitempty"`
	Collector  kernel.UUID  `json:"collector"`
	At         time.Time    `json:"at"`
}

func (e CollectorChanged) EventType() string        { return EventCollectorChanged }
func (e CollectorChanged) AggregateID() kernel.UUID { return e.TaskID }
func (e CollectorChanged) OccurredAt() time.Time    { return e.At }

// Reset is raised by an administrative reset of the task.
type Reset struct {
	TaskID     kernel.UUID         `json:"taskId"`
	ShipmentID kernel.UUID         `json:"shipmentId"`
	Mode       lifecycle.ResetMode `json:"mode"`
	At         time.Time           `json:"at"`
}

func (e Reset) EventType() string        { return EventReset }
func (e Reset) AggregateID() kernel.UUID { return e.TaskID }
func (e Reset) OccurredAt() time.Time    { return e.At }
