package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
)

func copyUpdates(lines []task.LineUpdate) []task.LineUpdate {
	out := make([]task.LineUpdate, len(lines))
	copy(out, lines)
	return out
}

// lockShipmentAndTask row-locks the parent shipment before the task. Every
// transition that rolls up into the shipment takes its locks in this order,
// so concurrent confirms of sibling tasks serialize on the shipment row and
// each of them sees the other's committed status.
func lockShipmentAndTask(ctx context.Context, uow UoW, taskID kernel.UUID) (*shipment.Shipment, *task.Task, error) {
	taskRepo := uow.TaskRepository()

	unlocked, err := taskRepo.Get(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	sh, err := uow.ShipmentRepository().GetForUpdate(ctx, unlocked.ShipmentID())
	if err != nil {
		return nil, nil, err
	}

	tk, err := taskRepo.GetForUpdate(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	return sh, tk, nil
}

// rollup recomputes the shipment status from all of its tasks, taking the
// in-memory state of the changed task instead of its stored row.
func rollup(ctx context.Context, uow UoW, sh *shipment.Shipment, changed *task.Task, now time.Time) error {
	siblings, err := uow.TaskRepository().ListByShipment(ctx, sh.ID())
	if err != nil {
		return err
	}

	statuses := make([]lifecycle.Status, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID().IsEqual(changed.ID()) {
			statuses = append(statuses, changed.Status())
			continue
		}
		statuses = append(statuses, sibling.Status())
	}
	return sh.Rollup(statuses, now)
}
