// Package http is the REST adapter of the fulfillment service. Requests are
// checked against the embedded OpenAPI contract, the caller is taken from the
// session service headers and the work is delegated to the use case handlers.
package http

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
)

// Use case handlers the server depends on.
type (
	CreateShipmentHandler interface {
		Handle(ctx context.Context, command commands.CreateShipmentCommand) (commands.CreateShipmentResult, error)
	}
	AdminResetHandler interface {
		Handle(ctx context.Context, command commands.AdminResetCommand) error
	}
	MarkShipmentExportedHandler interface {
		Handle(ctx context.Context, command commands.MarkShipmentExportedCommand) error
	}
	AcquireLockHandler interface {
		Handle(ctx context.Context, command commands.AcquireLockCommand) (commands.AcquireLockResult, error)
	}
	ReleaseLockHandler interface {
		Handle(ctx context.Context, command commands.ReleaseLockCommand) error
	}
	SaveProgressHandler interface {
		Handle(ctx context.Context, command commands.SaveProgressCommand) error
	}
	SubmitForReviewHandler interface {
		Handle(ctx context.Context, command commands.SubmitForReviewCommand) (commands.SubmitForReviewResult, error)
	}
	SaveConfirmationProgressHandler interface {
		Handle(ctx context.Context, command commands.SaveConfirmationProgressCommand) error
	}
	ConfirmTaskHandler interface {
		Handle(ctx context.Context, command commands.ConfirmTaskCommand) (commands.ConfirmTaskResult, error)
	}

	GetShipmentHandler interface {
		Handle(ctx context.Context, query queries.GetShipmentQuery) (*queries.ShipmentView, error)
	}
	GetActiveTasksHandler interface {
		Handle(ctx context.Context, query queries.GetActiveTasksQuery) ([]queries.TaskView, error)
	}
	GetUnexportedShipmentsHandler interface {
		Handle(ctx context.Context, query queries.GetUnexportedShipmentsQuery) ([]queries.UnexportedShipmentView, error)
	}
)

// Handlers groups every use case exposed over HTTP.
type Handlers struct {
	CreateShipment           CreateShipmentHandler
	AdminReset               AdminResetHandler
	MarkShipmentExported     MarkShipmentExportedHandler
	AcquireLock              AcquireLockHandler
	ReleaseLock              ReleaseLockHandler
	SaveProgress             SaveProgressHandler
	SubmitForReview          SubmitForReviewHandler
	SaveConfirmationProgress SaveConfirmationProgressHandler
	Confirm                  ConfirmTaskHandler

	GetShipment            GetShipmentHandler
	GetActiveTasks         GetActiveTasksHandler
	GetUnexportedShipments GetUnexportedShipmentsHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{handlers: handlers, logger: logger.With("component", "http")}
}
