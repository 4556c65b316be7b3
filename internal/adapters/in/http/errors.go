package http

import (
	"errors"
	"net/http"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/core/ports"
	"mailroom/internal/generated/servers"
	"mailroom/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Machine readable error codes returned in servers.Error.
const (
	codeUnauthenticated   = "UNAUTHENTICATED"
	codeForbidden         = "FORBIDDEN"
	codeNotFound          = "NOT_FOUND"
	codeResidentNotFound  = "RESIDENT_NOT_FOUND"
	codeMailroomFull      = "MAILROOM_FULL"
	codeInvalidTransition = "INVALID_TRANSITION"
	codeValidation        = "VALIDATION_FAILED"
	codePersistence       = "PERSISTENCE_FAILURE"
	codeInternal          = "INTERNAL_ERROR"
)

// respondError writes the response for an application error.
func respondError(ctx echo.Context, err error) error {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		ctx.Logger().Error(err)
	}
	return writeError(ctx, status, code, message)
}

func classify(err error) (int, string, string) {
	var (
		residentNotFound  *commands.ResidentNotFoundError
		poolExhausted     *pkgnumber.PoolExhaustedError
		invalidTransition *parcel.InvalidTransitionError
	)

	switch {
	case errors.Is(err, ports.ErrUnauthenticated):
		return http.StatusUnauthorized, codeUnauthenticated, "Authentication required"
	case errors.As(err, &residentNotFound):
		return http.StatusNotFound, codeResidentNotFound, residentNotFound.Error()
	case errors.Is(err, commands.ErrResidentNotFound):
		return http.StatusNotFound, codeResidentNotFound, err.Error()
	case errors.As(err, &poolExhausted):
		return http.StatusConflict, codeMailroomFull, poolExhausted.Error()
	case errors.Is(err, pkgnumber.ErrPoolExhausted):
		return http.StatusConflict, codeMailroomFull, err.Error()
	case errors.As(err, &invalidTransition):
		return http.StatusConflict, codeInvalidTransition, invalidTransition.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, codeNotFound, err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, codeValidation, err.Error()
	case errors.Is(err, commands.ErrPersistenceFailure):
		return http.StatusInternalServerError, codePersistence, "The package could not be saved, please retry"
	default:
		return http.StatusInternalServerError, codeInternal, "Internal server error"
	}
}

func writeError(ctx echo.Context, status int, code, message string) error {
	return ctx.JSON(status, servers.Error{Code: status, Error: code, Message: message})
}

// HTTPErrorHandler renders errors that escape handlers, such as unknown
// routes and parameter binding failures, in the API error shape.
func HTTPErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status, code, message := http.StatusInternalServerError, codeInternal, "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = http.StatusText(status)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		switch status {
		case http.StatusBadRequest:
			code = codeValidation
		case http.StatusUnauthorized:
			code = codeUnauthenticated
		case http.StatusForbidden:
			code = codeForbidden
		case http.StatusNotFound:
			code = codeNotFound
		default:
			if status < http.StatusInternalServerError {
				code = http.StatusText(status)
			}
		}
	} else {
		ctx.Logger().Error(err)
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(status)
		return
	}
	_ = writeError(ctx, status, code, message)
}
