package task

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask")

// Metrics are computed when picking is submitted.
type Metrics struct {
	// ItemCount is the number of lines (positions) in the task.
	ItemCount int
	// UnitCount is the total collected quantity.
	UnitCount decimal.Decimal
	// TimePerHundredItems is the picking time normalised to one hundred positions.
	TimePerHundredItems time.Duration
}

// Snapshot is the persisted state of a task, used by RestoreTask.
type Snapshot struct {
	ID             kernel.UUID
	ShipmentID     kernel.UUID
	Warehouse      kernel.Warehouse
	Status         lifecycle.Status
	Lines          []*Line
	CollectorID    *kernel.UUID
	CheckerID      *kernel.UUID
	DictatorID     *kernel.UUID
	Places         int
	StartedAt      *time.Time
	LastProgressAt *time.Time
	CompletedAt    *time.Time
	ConfirmedAt    *time.Time
	Metrics        Metrics
	CreatedAt      time.Time
	WithdrawnAt    *time.Time
}

// Task is the aggregate root of one unit of picking and checking work.
//
// Invariants:
//   - belongs to exactly one shipment and one warehouse
//   - has at least one line
//   - status moves New -> PendingConfirmation -> Processed outside of Reset
//   - collected quantities change only in New, confirmed quantities only in PendingConfirmation
type Task struct {
	kernel.EventRecorder

	id             kernel.UUID
	shipmentID     kernel.UUID
	warehouse      kernel.Warehouse
	status         lifecycle.Status
	lines          []*Line
	collectorID    *kernel.UUID
	checkerID      *kernel.UUID
	dictatorID     *kernel.UUID
	places         int
	startedAt      *time.Time
	lastProgressAt *time.Time
	completedAt    *time.Time
	confirmedAt    *time.Time
	metrics        Metrics
	createdAt      time.Time
	withdrawnAt    *time.Time

	isConstructed bool
}

// NewTask creates a task in status New for the given shipment and warehouse.
func NewTask(shipmentID kernel.UUID, warehouse kernel.Warehouse, lines []*Line, now time.Time) (*Task, error) {
	return RestoreTask(Snapshot{
		ID:         kernel.NewUUID(),
		ShipmentID: shipmentID,
		Warehouse:  warehouse,
		Status:     lifecycle.New,
		Lines:      lines,
		CreatedAt:  now,
	})
}

// RestoreTask rebuilds a task from storage without raising events.
func RestoreTask(s Snapshot) (*Task, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.ShipmentID.Validate(),
		s.Warehouse.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if len(s.Lines) == 0 {
		return nil, errs.NewValueIsRequiredError("task lines")
	}
	if s.Places < 0 {
		return nil, errs.NewValueIsOutOfRangeError("places", s.Places, 0, "unbounded")
	}

	return &Task{
		id:             s.ID,
		shipmentID:     s.ShipmentID,
		warehouse:      s.Warehouse,
		status:         s.Status,
		lines:          s.Lines,
		collectorID:    s.CollectorID,
		checkerID:      s.CheckerID,
		dictatorID:     s.DictatorID,
		places:         s.Places,
		startedAt:      s.StartedAt,
		lastProgressAt: s.LastProgressAt,
		completedAt:    s.CompletedAt,
		confirmedAt:    s.ConfirmedAt,
		metrics:        s.Metrics,
		createdAt:      s.CreatedAt,
		withdrawnAt:    s.WithdrawnAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the task was built by a constructor.
func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

func (t *Task) ID() kernel.UUID             { return t.id }
func (t *Task) ShipmentID() kernel.UUID     { return t.shipmentID }
func (t *Task) Warehouse() kernel.Warehouse { return t.warehouse }
func (t *Task) Status() lifecycle.Status    { return t.status }
func (t *Task) Lines() []*Line              { return t.lines }
func (t *Task) CollectorID() *kernel.UUID   { return t.collectorID }
func (t *Task) CheckerID() *kernel.UUID     { return t.checkerID }
func (t *Task) DictatorID() *kernel.UUID    { return t.dictatorID }
func (t *Task) Places() int                 { return t.places }
func (t *Task) StartedAt() *time.Time       { return t.startedAt }
func (t *Task) LastProgressAt() *time.Time  { return t.lastProgressAt }
func (t *Task) CompletedAt() *time.Time     { return t.completedAt }
func (t *Task) ConfirmedAt() *time.Time     { return t.confirmedAt }
func (t *Task) Metrics() Metrics            { return t.metrics }
func (t *Task) CreatedAt() time.Time        { return t.createdAt }
func (t *Task) WithdrawnAt() *time.Time     { return t.withdrawnAt }

// EnsureActive rejects work on a task whose shipment was deleted.
func (t *Task) EnsureActive() error {
	if t.withdrawnAt != nil {
		return errs.NewConflictError(errs.CodeWrongState, "task belongs to a deleted shipment")
	}
	return nil
}
func (t *Task) IsCollector(id kernel.UUID) bool {
	return t.collectorID != nil && t.collectorID.IsEqual(id)
}

// Line finds a task line by its identifier.
func (t *Task) Line(id kernel.UUID) (*Line, bool) {
	for _, l := range t.lines {
		if l.id.IsEqual(id) {
			return l, true
		}
	}
	return nil, false
}

// LineResults returns the outcome of every line keyed by its shipment line.
func (t *Task) LineResults() map[kernel.UUID]shipment.LineResult {
	out := make(map[kernel.UUID]shipment.LineResult, len(t.lines))
	for _, l := range t.lines {
		out[l.shipmentLineID] = l.result
	}
	return out
}

// ClaimInput is produced by a successful lock acquisition.
type ClaimInput struct {
	UserID kernel.UUID
	// Replace is set on takeover: the new lock holder replaces the current collector.
	Replace bool
	Now     time.Time
}

// ClaimCollection designates the lock holder as collector while the task is New.
// An existing collector is only replaced on takeover. Returns true if the collector changed.
func (t *Task) ClaimCollection(in ClaimInput) (bool, error) {
	if err := in.UserID.Validate(); err != nil {
		return false, err
	}
	if err := t.EnsureActive(); err != nil {
		return false, err
	}
	if t.status != lifecycle.New {
		return false, nil
	}
	if t.collectorID != nil && (t.collectorID.IsEqual(in.UserID) || !in.Replace) {
		return false, nil
	}

	previous := t.collectorID
	userID := in.UserID
	t.collectorID = &userID
	t.Record(CollectorChanged{
		TaskID:     t.id,
		ShipmentID: t.shipmentID,
		Previous:   previous,
		Collector:  userID,
		At:         in.Now,
	})
	return true, nil
}

// ProgressInput carries collected quantities written by the collector.
type ProgressInput struct {
	CollectorID kernel.UUID
	Lines       []LineUpdate
	Now         time.Time
}

// SaveProgress records collected quantities. The first call stamps startedAt.
// A task designated to another collector is rejected with TAKEN_BY_OTHER.
func (t *Task) SaveProgress(in ProgressInput) error {
	if err := t.EnsureActive(); err != nil {
		return err
	}
	if err := t.status.ValidatePicking(); err != nil {
		return err
	}
	if err := t.checkCollector(in.CollectorID, errs.CodeTakenByOther); err != nil {
		return err
	}
	lines, err := t.validateUpdates(in.Lines)
	if err != nil {
		return err
	}

	t.assignCollector(in.CollectorID)
	t.applyPicking(lines, in.Lines)
	t.touchProgress(in.Now)
	t.Record(ProgressSaved{
		TaskID:     t.id,
		ShipmentID: t.shipmentID,
		UserID:     in.CollectorID,
		Lines:      len(in.Lines),
		At:         in.Now,
	})
	return nil
}

// SubmitInput carries the final collected quantities of a task.
type SubmitInput struct {
	CollectorID kernel.UUID
	Lines       []LineUpdate
	Places      *int
	Now         time.Time
}

// SubmitForReview finishes picking: writes the last quantities, treats lines
// without a recorded quantity as collected zero, stamps completedAt, computes
// metrics and moves the task to PendingConfirmation.
func (t *Task) SubmitForReview(in SubmitInput) error {
	if err := t.EnsureActive(); err != nil {
		return err
	}
	next, err := t.status.Submit()
	if err != nil {
		return err
	}
	if err = t.checkCollector(in.CollectorID, errs.CodeWrongCollector); err != nil {
		return err
	}
	lines, err := t.validateUpdates(in.Lines)
	if err != nil {
		return err
	}
	if err = validatePlaces(in.Places); err != nil {
		return err
	}

	t.assignCollector(in.CollectorID)
	t.setPlaces(in.Places)
	t.applyPicking(lines, in.Lines)
	for _, l := range t.lines {
		if l.result.CollectedQty == nil {
			zero := decimal.Zero
			l.result.CollectedQty = &zero
		}
	}
	t.touchProgress(in.Now)
	completedAt := in.Now
	t.completedAt = &completedAt
	t.metrics = t.computeMetrics(in.Now)

	t.transition(next, in.CollectorID, in.Now)
	return nil
}

// CheckingInput carries confirmed quantities written by a checker.
type CheckingInput struct {
	CheckerID kernel.UUID
	// AsAdmin lets an administrator act for the designated checker.
	AsAdmin bool
	Lines   []LineUpdate
	Now     time.Time
}

// SaveChecking records confirmed quantities while the task awaits confirmation.
// The first checker to write becomes the designated checker.
func (t *Task) SaveChecking(in CheckingInput) error {
	if err := t.EnsureActive(); err != nil {
		return err
	}
	if err := t.status.ValidateChecking(); err != nil {
		return err
	}
	if err := t.checkChecker(in.CheckerID, in.AsAdmin); err != nil {
		return err
	}
	lines, err := t.validateUpdates(in.Lines)
	if err != nil {
		return err
	}

	t.assignChecker(in.CheckerID)
	t.applyChecking(lines, in.Lines)
	t.Record(ProgressSaved{
		TaskID:     t.id,
		ShipmentID: t.shipmentID,
		UserID:     in.CheckerID,
		Lines:      len(in.Lines),
		Checking:   true,
		At:         in.Now,
	})
	return nil
}

// ConfirmInput carries the final checking results of a task.
type ConfirmInput struct {
	CheckerID  kernel.UUID
	AsAdmin    bool
	DictatorID *kernel.UUID
	Places     *int
	Lines      []LineUpdate
	Now        time.Time
}

// Confirm finishes checking: lines without a confirmed quantity are confirmed
// as collected, confirmedAt is stamped and the task moves to Processed.
func (t *Task) Confirm(in ConfirmInput) error {
	if err := t.EnsureActive(); err != nil {
		return err
	}
	next, err := t.status.Confirm()
	if err != nil {
		return err
	}
	if err = t.checkChecker(in.CheckerID, in.AsAdmin); err != nil {
		return err
	}
	if in.DictatorID != nil {
		if err = in.DictatorID.Validate(); err != nil {
			return err
		}
	}
	lines, err := t.validateUpdates(in.Lines)
	if err != nil {
		return err
	}
	if err = validatePlaces(in.Places); err != nil {
		return err
	}

	t.assignChecker(in.CheckerID)
	t.setPlaces(in.Places)
	t.applyChecking(lines, in.Lines)
	for _, l := range t.lines {
		if l.result.ConfirmedQty == nil {
			confirmed := l.collected()
			l.result.ConfirmedQty = &confirmed
			l.result.Confirmed = true
		}
	}
	if in.DictatorID != nil {
		dictator := *in.DictatorID
		t.dictatorID = &dictator
	}
	confirmedAt := in.Now
	t.confirmedAt = &confirmedAt

	t.transition(next, in.CheckerID, in.Now)
	return nil
}

// Reset rewinds the task for an administrative reset.
//
//   - collect, delete: back to New; collected, checked and confirmed results,
//     collector, checker, dictator, timestamps and metrics are cleared
//   - confirm: Processed goes back to PendingConfirmation; confirmed results,
//     checker, dictator and confirmedAt are cleared. A New task is left untouched.
//
// After delete the task is withdrawn: it can no longer be locked or written.
func (t *Task) Reset(mode lifecycle.ResetMode, now time.Time) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	next := t.status
	if mode.ClearsPicking() {
		next = lifecycle.New
		for _, l := range t.lines {
			l.result = shipment.LineResult{}
		}
		t.collectorID = nil
		t.startedAt = nil
		t.lastProgressAt = nil
		t.completedAt = nil
		t.metrics = Metrics{}
		t.clearChecking()
	} else if t.status != lifecycle.New {
		next = lifecycle.PendingConfirmation
		for _, l := range t.lines {
			l.result.ConfirmedQty = nil
			l.result.Confirmed = false
		}
		t.clearChecking()
	}

	if mode == lifecycle.ResetDelete {
		withdrawnAt := now
		t.withdrawnAt = &withdrawnAt
	}

	t.Record(Reset{TaskID: t.id, ShipmentID: t.shipmentID, Mode: mode, At: now})
	if next != t.status {
		t.transition(next, kernel.UUID{}, now)
	}
	return nil
}

func (t *Task) clearChecking() {
	t.checkerID = nil
	t.dictatorID = nil
	t.confirmedAt = nil
}

func (t *Task) checkCollector(userID kernel.UUID, code errs.Code) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if t.collectorID != nil && !t.collectorID.IsEqual(userID) {
		return errs.NewConflictError(code, fmt.Sprintf("task %s is assigned to collector %s", t.id, t.collectorID))
	}
	return nil
}

func (t *Task) assignCollector(userID kernel.UUID) {
	if t.collectorID == nil {
		t.collectorID = &userID
	}
}

// checkChecker lets an administrator act while another checker is designated.
func (t *Task) checkChecker(userID kernel.UUID, asAdmin bool) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if t.checkerID != nil && !t.checkerID.IsEqual(userID) && !asAdmin {
		return errs.NewConflictError(
			errs.CodeWrongChecker,
			fmt.Sprintf("task %s is being checked by %s", t.id, t.checkerID),
		)
	}
	return nil
}

func (t *Task) assignChecker(userID kernel.UUID) {
	if t.checkerID == nil {
		t.checkerID = &userID
	}
}

func validatePlaces(places *int) error {
	if places != nil && *places < 0 {
		return errs.NewValueIsOutOfRangeError("places", *places, 0, "unbounded")
	}
	return nil
}

func (t *Task) setPlaces(places *int) {
	if places != nil {
		t.places = *places
	}
}

func (t *Task) applyPicking(lines []*Line, updates []LineUpdate) {
	for i, l := range lines {
		qty := updates[i].Quantity
		l.result.CollectedQty = &qty
		l.result.Checked = updates[i].Done
	}
}

func (t *Task) applyChecking(lines []*Line, updates []LineUpdate) {
	for i, l := range lines {
		qty := updates[i].Quantity
		l.result.ConfirmedQty = &qty
		l.result.Confirmed = updates[i].Done
	}
}

func (t *Task) touchProgress(now time.Time) {
	at := now
	if t.startedAt == nil {
		started := now
		t.startedAt = &started
	}
	t.lastProgressAt = &at
}

func (t *Task) computeMetrics(now time.Time) Metrics {
	units := decimal.Zero
	for _, l := range t.lines {
		units = units.Add(l.collected())
	}

	m := Metrics{ItemCount: len(t.lines), UnitCount: units}
	if t.startedAt != nil && now.After(*t.startedAt) {
		elapsed := now.Sub(*t.startedAt)
		m.TimePerHundredItems = elapsed * 100 / time.Duration(m.ItemCount)
	}
	return m
}

func (t *Task) transition(next lifecycle.Status, by kernel.UUID, now time.Time) {
	event := StatusChanged{TaskID: t.id, ShipmentID: t.shipmentID, From: t.status, To: next, At: now}
	if !by.IsZero() {
		event.By = &by
	}
	t.status = next
	t.Record(event)
}
