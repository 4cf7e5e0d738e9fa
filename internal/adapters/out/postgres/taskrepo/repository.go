package taskrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository implements ports.TaskRepository using GORM.
type GormTaskRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTaskRepository(db *gorm.DB, tracker aggregateTracker) *GormTaskRepository {
	return &GormTaskRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddAll inserts tasks in the given order, so ListByShipment returns them
// the way the splitter produced them.
func (r *GormTaskRepository) AddAll(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(t))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, t := range tasks {
		r.tracker.TrackAggregate(t.ID(), t)
	}
	return nil
}

func (r *GormTaskRepository) Update(ctx context.Context, aggregate *task.Task) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&TaskDTO{}).Where("id = ?", dto.ID).Updates(dto.stateColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("task", aggregate.ID().String())
	}

	for _, line := range dto.Lines {
		if err := db.Model(&LineDTO{}).Where("id = ?", line.ID).Updates(line.resultColumns()).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	return r.get(ctx, id, false)
}

func (r *GormTaskRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	return r.get(ctx, id, true)
}

func (r *GormTaskRepository) ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*task.Task, error) {
	return r.list(ctx, shipmentID, false)
}

func (r *GormTaskRepository) ListByShipmentForUpdate(
	ctx context.Context,
	shipmentID kernel.UUID,
) ([]*task.Task, error) {
	return r.list(ctx, shipmentID, true)
}

func (r *GormTaskRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*task.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("id = ?", id.Bytes())
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto TaskDTO
	if err := query.First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	tasks, err := r.withLines(ctx, []TaskDTO{dto})
	if err != nil {
		return nil, err
	}
	return tasks[0], nil
}

func (r *GormTaskRepository) list(ctx context.Context, shipmentID kernel.UUID, forUpdate bool) ([]*task.Task, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("shipment_id = ?", shipmentID.Bytes()).Order("seq")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dtos []TaskDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withLines(ctx, dtos)
}

// withLines loads the lines of all given tasks in one query and restores the aggregates.
func (r *GormTaskRepository) withLines(ctx context.Context, dtos []TaskDTO) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(dtos))
	if len(dtos) == 0 {
		return tasks, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, d := range dtos {
		ids = append(ids, d.ID)
	}

	var lines []LineDTO
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", ids).
		Order("task_id, position").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	byTask := make(map[uuid.UUID][]LineDTO, len(dtos))
	for _, l := range lines {
		byTask[l.TaskID] = append(byTask[l.TaskID], l)
	}

	for _, d := range dtos {
		d.Lines = byTask[d.ID]
		t, convErr := toDomain(d)
		if convErr != nil {
			return nil, convErr
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
