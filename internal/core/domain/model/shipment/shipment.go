package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")

// Header holds the descriptive attributes of a shipment received at intake.
type Header struct {
	Number      string
	Customer    string
	Destination string
	Region      string
	Weight      decimal.Decimal
	Places      int
	Comment     string
}

// Snapshot is the persisted state of a shipment, used by RestoreShipment.
type Snapshot struct {
	ID          kernel.UUID
	Header      Header
	Status      lifecycle.Status
	Lines       []*Line
	CreatedAt   time.Time
	ConfirmedAt *time.Time
	DeletedAt   *time.Time
	ExportedAt  *time.Time
}

// Shipment is the aggregate root of a customer order.
//
// Invariants:
//   - At least one line
//   - Status is Processed if and only if every task of the shipment is Processed
//   - deleted and deletedAt are set together; a deleted shipment is never undeleted
//   - exportedAt is only set on a Processed shipment
type Shipment struct {
	kernel.EventRecorder

	id          kernel.UUID
	header      Header
	status      lifecycle.Status
	lines       []*Line
	createdAt   time.Time
	confirmedAt *time.Time
	deletedAt   *time.Time
	exportedAt  *time.Time

	isConstructed bool
}

// NewShipment validates intake data and creates a shipment in status New.
// Lines keep the order in which they were supplied.
func NewShipment(header Header, specs []LineSpec, now time.Time) (*Shipment, error) {
	header, err := validateHeader(header)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errs.NewValueIsRequiredError("lines")
	}

	lines := make([]*Line, 0, len(specs))
	var problems []error
	for _, spec := range specs {
		line, lineErr := newLine(spec)
		if lineErr != nil {
			problems = append(problems, lineErr)
			continue
		}
		lines = append(lines, line)
	}
	if err = errors.Join(problems...); err != nil {
		return nil, err
	}

	s := &Shipment{
		id:            kernel.NewUUID(),
		header:        header,
		status:        lifecycle.New,
		lines:         lines,
		createdAt:     now,
		isConstructed: true,
	}
	s.Record(Created{ShipmentID: s.id, Number: header.Number, LineCount: len(lines), At: now})
	return s, nil
}

// RestoreShipment rebuilds a shipment from storage without raising events.
func RestoreShipment(snapshot Snapshot) (*Shipment, error) {
	header, err := validateHeader(snapshot.Header)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(snapshot.ID.Validate(), snapshot.Status.Validate()); err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, errs.NewValueIsRequiredError("lines")
	}

	return &Shipment{
		id:            snapshot.ID,
		header:        header,
		status:        snapshot.Status,
		lines:         snapshot.Lines,
		createdAt:     snapshot.CreatedAt,
		confirmedAt:   snapshot.ConfirmedAt,
		deletedAt:     snapshot.DeletedAt,
		exportedAt:    snapshot.ExportedAt,
		isConstructed: true,
	}, nil
}

func validateHeader(h Header) (Header, error) {
	h.Number = strings.TrimSpace(h.Number)
	h.Customer = strings.TrimSpace(h.Customer)

	var problems []error
	if h.Number == "" {
		problems = append(problems, errs.NewValueIsRequiredError("number"))
	}
	if h.Customer == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer"))
	}
	if h.Weight.IsNegative() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"weight",
			fmt.Errorf("%s is negative", h.Weight),
		))
	}
	if h.Places < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("places", h.Places, 0, "unbounded"))
	}
	return h, errors.Join(problems...)
}

// Validate ensures the shipment was built by a constructor.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) Header() Header {
	return s.header
}

func (s *Shipment) Number() string {
	return s.header.Number
}

func (s *Shipment) Status() lifecycle.Status {
	return s.status
}

// Lines returns the lines in intake order.
func (s *Shipment) Lines() []*Line {
	return s.lines
}

// Line finds a line by its identifier.
func (s *Shipment) Line(id kernel.UUID) (*Line, bool) {
	for _, l := range s.lines {
		if l.id.IsEqual(id) {
			return l, true
		}
	}
	return nil, false
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) ConfirmedAt() *time.Time {
	return s.confirmedAt
}

func (s *Shipment) IsDeleted() bool {
	return s.deletedAt != nil
}

func (s *Shipment) DeletedAt() *time.Time {
	return s.deletedAt
}

func (s *Shipment) IsExported() bool {
	return s.exportedAt != nil
}

func (s *Shipment) ExportedAt() *time.Time {
	return s.exportedAt
}

// Rollup derives the shipment status from the statuses of all of its tasks:
//   - every task Processed: Processed, confirmedAt stamped once
//   - every task at least PendingConfirmation: PendingConfirmation
//   - otherwise New
//
// A shipment without tasks stays New.
func (s *Shipment) Rollup(taskStatuses []lifecycle.Status, now time.Time) error {
	for _, st := range taskStatuses {
		if err := st.Validate(); err != nil {
			return err
		}
	}

	next := lifecycle.New
	if len(taskStatuses) > 0 {
		next = lifecycle.Processed
		for _, st := range taskStatuses {
			if st < next {
				next = st
			}
		}
	}

	switch next {
	case lifecycle.Processed:
		if s.confirmedAt == nil {
			at := now
			s.confirmedAt = &at
		}
	default:
		s.confirmedAt = nil
	}

	if next != s.status {
		s.Record(StatusChanged{ShipmentID: s.id, From: s.status, To: next, At: now})
		s.status = next
	}
	return nil
}

// ApplyLineResults mirrors task line outcomes onto the shipment lines they reference.
func (s *Shipment) ApplyLineResults(results map[kernel.UUID]LineResult) error {
	for id := range results {
		if _, ok := s.Line(id); !ok {
			return errs.NewValueIsInvalidErrorWithCause("line", fmt.Errorf("%s is not part of shipment %s", id, s.id))
		}
	}
	for id, result := range results {
		line, _ := s.Line(id)
		line.setResult(result)
	}
	return nil
}

// ResetLines clears line outcomes according to an administrative reset mode.
func (s *Shipment) ResetLines(mode lifecycle.ResetMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	for _, l := range s.lines {
		if mode.ClearsPicking() {
			l.clearPicking()
		}
		l.clearChecking()
	}
	return nil
}

// MarkDeleted soft-deletes the shipment. Deleting twice is rejected.
func (s *Shipment) MarkDeleted(now time.Time) error {
	if s.IsDeleted() {
		return errs.NewConflictError(errs.CodeWrongState, fmt.Sprintf("shipment %s is already deleted", s.id))
	}
	at := now
	s.deletedAt = &at
	s.Record(Deleted{ShipmentID: s.id, At: now})
	return nil
}

// MarkExported records the ERP handover. Repeated calls keep the first timestamp.
func (s *Shipment) MarkExported(now time.Time) error {
	if s.IsDeleted() {
		return errs.NewConflictError(errs.CodeWrongState, fmt.Sprintf("shipment %s is deleted", s.id))
	}
	if s.status != lifecycle.Processed {
		return errs.NewConflictError(
			errs.CodeWrongState,
			fmt.Sprintf("cannot export shipment %s in status %s", s.id, s.status),
		)
	}
	if s.IsExported() {
		return nil
	}

	at := now
	s.exportedAt = &at
	s.Record(Exported{ShipmentID: s.id, At: now})
	return nil
}
