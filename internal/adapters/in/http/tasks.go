package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type lineUpdate struct {
	LineID   kernel.UUID     `json:"lineId"`
	Quantity decimal.Decimal `json:"quantity"`
	Done     bool            `json:"done"`
}

type lineUpdates struct {
	Lines []lineUpdate `json:"lines"`
}

type submission struct {
	Lines  []lineUpdate `json:"lines"`
	Places *int         `json:"places"`
}

type confirmation struct {
	Lines      []lineUpdate `json:"lines"`
	Places     *int         `json:"places"`
	DictatorID *kernel.UUID `json:"dictatorId"`
}

type lockRequest struct {
	ConfirmTakeOver bool `json:"confirmTakeOver"`
}

type lockGrant struct {
	TaskID   kernel.UUID    `json:"taskId"`
	Outcome  string         `json:"outcome"`
	LockedAt time.Time      `json:"lockedAt"`
	Previous tasklock.State `json:"previous"`
}

type transition struct {
	TaskStatus                 lifecycle.Status `json:"taskStatus"`
	ShipmentStatus             lifecycle.Status `json:"shipmentStatus"`
	ItemCount                  *int             `json:"itemCount,omitempty"`
	UnitCount                  *decimal.Decimal `json:"unitCount,omitempty"`
	TimePerHundredItemsSeconds *float64         `json:"timePerHundredItemsSeconds,omitempty"`
}

func toUpdates(lines []lineUpdate) []task.LineUpdate {
	updates := make([]task.LineUpdate, 0, len(lines))
	for _, l := range lines {
		updates = append(updates, task.LineUpdate{LineID: l.LineID, Quantity: l.Quantity, Done: l.Done})
	}
	return updates
}

// GetActiveTasks handles GET /api/v1/tasks.
func (s *Server) GetActiveTasks(ctx echo.Context) error {
	code, err := queryParam[*string](ctx, "warehouse", true)
	if err != nil {
		return s.fail(ctx, err)
	}
	names, err := queryParam[*[]string](ctx, "status", true)
	if err != nil {
		return s.fail(ctx, err)
	}

	var warehouse *kernel.Warehouse
	if code != nil && *code != "" {
		w, wErr := kernel.NewWarehouse(*code)
		if wErr != nil {
			return s.fail(ctx, wErr)
		}
		warehouse = &w
	}
	var statuses []lifecycle.Status
	if names != nil {
		for _, name := range *names {
			status, pErr := lifecycle.ParseStatus(name)
			if pErr != nil {
				return s.fail(ctx, pErr)
			}
			statuses = append(statuses, status)
		}
	}

	query, err := queries.NewGetActiveTasksQuery(warehouse, statuses...)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.handlers.GetActiveTasks.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	if views == nil {
		views = []queries.TaskView{}
	}
	return ctx.JSON(http.StatusOK, views)
}

// AcquireLock handles POST /api/v1/tasks/{taskId}/lock. Calling it again
// while holding the lock refreshes the heartbeat.
func (s *Server) AcquireLock(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body lockRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAcquireLockCommand(id, callerOf(ctx), body.ConfirmTakeOver)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.handlers.AcquireLock.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, lockGrant{
		TaskID:   result.TaskID,
		Outcome:  result.Outcome.String(),
		LockedAt: result.LockedAt,
		Previous: result.Previous,
	})
}

// ReleaseLock handles DELETE /api/v1/tasks/{taskId}/lock.
func (s *Server) ReleaseLock(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewReleaseLockCommand(id, callerOf(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.ReleaseLock.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SaveProgress handles PUT /api/v1/tasks/{taskId}/progress.
func (s *Server) SaveProgress(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body lineUpdates
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSaveProgressCommand(id, callerOf(ctx), toUpdates(body.Lines))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.SaveProgress.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SubmitForReview handles POST /api/v1/tasks/{taskId}/submit.
func (s *Server) SubmitForReview(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body submission
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSubmitForReviewCommand(id, callerOf(ctx), toUpdates(body.Lines), body.Places)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.handlers.SubmitForReview.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	seconds := result.Metrics.TimePerHundredItems.Seconds()
	return ctx.JSON(http.StatusOK, transition{
		TaskStatus:                 result.TaskStatus,
		ShipmentStatus:             result.ShipmentStatus,
		ItemCount:                  &result.Metrics.ItemCount,
		UnitCount:                  &result.Metrics.UnitCount,
		TimePerHundredItemsSeconds: &seconds,
	})
}

// SaveConfirmationProgress handles PUT /api/v1/tasks/{taskId}/confirmation.
func (s *Server) SaveConfirmationProgress(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body lineUpdates
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSaveConfirmationProgressCommand(id, callerOf(ctx), toUpdates(body.Lines))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.SaveConfirmationProgress.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Confirm handles POST /api/v1/tasks/{taskId}/confirm.
func (s *Server) Confirm(ctx echo.Context) error {
	id, err := pathUUID(ctx, "taskId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body confirmation
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewConfirmTaskCommand(id, callerOf(ctx), toUpdates(body.Lines), body.DictatorID, body.Places)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.handlers.Confirm.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transition{TaskStatus: result.TaskStatus, ShipmentStatus: result.ShipmentStatus})
}
