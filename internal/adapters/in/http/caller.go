package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	callerKey = "caller"
)

// CallerMiddleware resolves the caller forwarded by the session service.
// Requests without a valid identity are rejected with 401.
func CallerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			caller, err := parseCaller(ctx.Request().Header)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: err.Error(),
				})
			}
			ctx.Set(callerKey, caller)
			return next(ctx)
		}
	}
}

func parseCaller(header http.Header) (actor.Actor, error) {
	rawID, rawRole := header.Get(HeaderUserID), header.Get(HeaderUserRole)
	if rawID == "" || rawRole == "" {
		return actor.Actor{}, errors.New("missing " + HeaderUserID + " or " + HeaderUserRole + " header")
	}

	userID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return actor.Actor{}, err
	}
	role, err := actor.ParseRole(rawRole)
	if err != nil {
		return actor.Actor{}, err
	}
	return actor.NewActor(userID, role)
}

// callerOf returns the caller stored by CallerMiddleware. A missing caller
// yields a zero Actor, which every command rejects.
func callerOf(ctx echo.Context) actor.Actor {
	caller, _ := ctx.Get(callerKey).(actor.Actor)
	return caller
}
