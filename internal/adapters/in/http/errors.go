package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx answer.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Reason is the machine code of forbidden and conflict errors.
	Reason   errs.Code    `json:"reason,omitempty"`
	Holder   *kernel.UUID `json:"holder,omitempty"`
	LockedAt *time.Time   `json:"lockedAt,omitempty"`
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errs.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail renders a use case error. Internal errors are logged, not echoed to clients.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusOf(err)
	body := Error{Code: status, Message: err.Error(), Reason: errs.CodeOf(err)}
	if status == http.StatusInternalServerError {
		body.Message = http.StatusText(status)
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	}

	var contested *tasklock.ContestedError
	if errors.As(err, &contested) {
		holder, lockedAt := contested.Holder, contested.LockedAt
		body.Holder = &holder
		body.LockedAt = &lockedAt
	}
	return ctx.JSON(status, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
