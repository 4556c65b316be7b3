package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface is implemented by the HTTP adapter.
type ServerInterface interface {
	// GetActivePackages handles GET /api/v1/mailrooms/{mailroomId}/packages.
	GetActivePackages(ctx echo.Context, mailroomId openapi_types.UUID) error
	// RegisterPackage handles POST /api/v1/mailrooms/{mailroomId}/packages.
	RegisterPackage(ctx echo.Context, mailroomId openapi_types.UUID) error
	// GetPackage handles GET /api/v1/mailrooms/{mailroomId}/packages/{packageId}.
	GetPackage(ctx echo.Context, mailroomId openapi_types.UUID, packageId openapi_types.UUID) error
	// TransitionPackage handles POST /api/v1/mailrooms/{mailroomId}/packages/{packageId}/transitions.
	TransitionPackage(ctx echo.Context, mailroomId openapi_types.UUID, packageId openapi_types.UUID) error
	// GetFailures handles GET /api/v1/mailrooms/{mailroomId}/failures.
	GetFailures(ctx echo.Context, mailroomId openapi_types.UUID, params GetFailuresParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetActivePackages(ctx echo.Context) error {
	mailroomId, err := bindUUIDPathParam(ctx, "mailroomId")
	if err != nil {
		return err
	}
	return w.Handler.GetActivePackages(ctx, mailroomId)
}

func (w *ServerInterfaceWrapper) RegisterPackage(ctx echo.Context) error {
	mailroomId, err := bindUUIDPathParam(ctx, "mailroomId")
	if err != nil {
		return err
	}
	return w.Handler.RegisterPackage(ctx, mailroomId)
}

func (w *ServerInterfaceWrapper) GetPackage(ctx echo.Context) error {
	mailroomId, err := bindUUIDPathParam(ctx, "mailroomId")
	if err != nil {
		return err
	}
	packageId, err := bindUUIDPathParam(ctx, "packageId")
	if err != nil {
		return err
	}
	return w.Handler.GetPackage(ctx, mailroomId, packageId)
}

func (w *ServerInterfaceWrapper) TransitionPackage(ctx echo.Context) error {
	mailroomId, err := bindUUIDPathParam(ctx, "mailroomId")
	if err != nil {
		return err
	}
	packageId, err := bindUUIDPathParam(ctx, "packageId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionPackage(ctx, mailroomId, packageId)
}

func (w *ServerInterfaceWrapper) GetFailures(ctx echo.Context) error {
	mailroomId, err := bindUUIDPathParam(ctx, "mailroomId")
	if err != nil {
		return err
	}

	var params GetFailuresParams
	if err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	return w.Handler.GetFailures(ctx, mailroomId, params)
}

func bindUUIDPathParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var value openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return value, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return value, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// BasePath is the prefix every API path is served under.
const BasePath = "/api/v1"

// RegisterHandlers adds every route of the API to router. The router is
// expected to be mounted at BasePath.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/mailrooms/:mailroomId/packages", wrapper.GetActivePackages)
	router.POST("/mailrooms/:mailroomId/packages", wrapper.RegisterPackage)
	router.GET("/mailrooms/:mailroomId/packages/:packageId", wrapper.GetPackage)
	router.POST("/mailrooms/:mailroomId/packages/:packageId/transitions", wrapper.TransitionPackage)
	router.GET("/mailrooms/:mailroomId/failures", wrapper.GetFailures)
}
