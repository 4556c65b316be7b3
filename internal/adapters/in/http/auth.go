package http

import (
	"errors"
	"net/http"
	"strings"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const staffScopeKey = "staff_scope"

// AuthMiddleware authenticates the bearer token and resolves the caller's
// staff scope. Callers without a staff row are forbidden.
func AuthMiddleware(sessions ports.SessionValidator, staff ports.StaffDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return writeError(ctx, http.StatusUnauthorized, codeUnauthenticated, "Bearer token required")
			}

			identity, err := sessions.Validate(ctx.Request().Context(), token)
			if err != nil {
				if errors.Is(err, ports.ErrUnauthenticated) {
					return writeError(ctx, http.StatusUnauthorized, codeUnauthenticated, "Invalid or expired token")
				}
				return respondError(ctx, err)
			}

			scope, err := staff.GetScope(ctx.Request().Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, errs.ErrObjectNotFound) {
					return writeError(ctx, http.StatusForbidden, codeForbidden, "Caller is not mailroom staff")
				}
				return respondError(ctx, err)
			}

			ctx.Set(staffScopeKey, scope)
			return next(ctx)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authorize checks that the authenticated caller may act on mailroomId. The
// returned error is an *echo.HTTPError rendered by HTTPErrorHandler.
func authorize(ctx echo.Context, mailroomId openapi_types.UUID) (ports.StaffScope, kernel.UUID, error) {
	scope, ok := ctx.Get(staffScopeKey).(ports.StaffScope)
	if !ok {
		return ports.StaffScope{}, kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	mailroomID, err := kernel.UUIDFromGoogle(mailroomId)
	if err != nil {
		return ports.StaffScope{}, kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid mailroom id")
	}

	if !scope.CanAccessMailroom(mailroomID) {
		return ports.StaffScope{}, kernel.UUID{}, echo.NewHTTPError(http.StatusForbidden, "Mailroom is outside the caller's scope")
	}

	return scope, mailroomID, nil
}
