package http

import (
	"context"
	"errors"
	"net/http"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/core/application/usecases/queries"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/core/domain/model/pkgnumber"
	"mailroom/internal/generated/servers"
	"mailroom/internal/metrics"
	"mailroom/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type RegisterPackageHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterPackageCommand) (*parcel.Parcel, error)
}

type TransitionPackageHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionPackageCommand) (*parcel.Parcel, error)
}

type GetPackageHandler interface {
	Handle(ctx context.Context, query queries.GetPackageQuery) (queries.PackageView, error)
}

type GetActivePackagesHandler interface {
	Handle(ctx context.Context, query queries.GetActivePackagesQuery) ([]queries.PackageView, error)
}

type GetFailuresHandler interface {
	Handle(ctx context.Context, query queries.GetFailuresQuery) ([]queries.FailureView, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	registerPackageHandler   RegisterPackageHandler
	transitionPackageHandler TransitionPackageHandler

	// Query handlers
	getPackageHandler        GetPackageHandler
	getActivePackagesHandler GetActivePackagesHandler
	getFailuresHandler       GetFailuresHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	registerPackageHandler RegisterPackageHandler,
	transitionPackageHandler TransitionPackageHandler,
	getPackageHandler GetPackageHandler,
	getActivePackagesHandler GetActivePackagesHandler,
	getFailuresHandler GetFailuresHandler,
) *Server {
	return &Server{
		registerPackageHandler:   registerPackageHandler,
		transitionPackageHandler: transitionPackageHandler,
		getPackageHandler:        getPackageHandler,
		getActivePackagesHandler: getActivePackagesHandler,
		getFailuresHandler:       getFailuresHandler,
	}
}

// RegisterPackage handles POST /api/v1/mailrooms/{mailroomId}/packages.
func (s *Server) RegisterPackage(ctx echo.Context, mailroomId openapi_types.UUID) error {
	scope, mailroomID, err := authorize(ctx, mailroomId)
	if err != nil {
		return err
	}

	var body servers.NewPackage
	if err = ctx.Bind(&body); err != nil {
		metrics.RecordRegistration(metrics.RegistrationRejected)
		return writeError(ctx, http.StatusBadRequest, codeValidation, "Invalid request body")
	}

	cmd, err := commands.NewRegisterPackageCommand(mailroomID, scope.UserID, body.StudentId, body.Provider)
	if err != nil {
		metrics.RecordRegistration(metrics.RegistrationRejected)
		return respondError(ctx, err)
	}

	registered, err := s.registerPackageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		metrics.RecordRegistration(registrationOutcome(err))
		return respondError(ctx, err)
	}

	metrics.RecordRegistration(metrics.RegistrationRegistered)
	response := packageFromParcel(registered)
	studentID := cmd.StudentID()
	response.StudentId = &studentID
	return ctx.JSON(http.StatusCreated, response)
}

// GetActivePackages handles GET /api/v1/mailrooms/{mailroomId}/packages.
func (s *Server) GetActivePackages(ctx echo.Context, mailroomId openapi_types.UUID) error {
	_, mailroomID, err := authorize(ctx, mailroomId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetActivePackagesQuery(mailroomID)
	if err != nil {
		return respondError(ctx, err)
	}

	views, err := s.getActivePackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.Package, len(views))
	for i, view := range views {
		response[i] = packageFromView(view)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetPackage handles GET /api/v1/mailrooms/{mailroomId}/packages/{packageId}.
func (s *Server) GetPackage(ctx echo.Context, mailroomId, packageId openapi_types.UUID) error {
	_, mailroomID, err := authorize(ctx, mailroomId)
	if err != nil {
		return err
	}

	packageID, err := kernel.UUIDFromGoogle(packageId)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetPackageQuery(mailroomID, packageID)
	if err != nil {
		return respondError(ctx, err)
	}

	view, err := s.getPackageHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, packageFromView(view))
}

// TransitionPackage handles POST /api/v1/mailrooms/{mailroomId}/packages/{packageId}/transitions.
func (s *Server) TransitionPackage(ctx echo.Context, mailroomId, packageId openapi_types.UUID) error {
	_, mailroomID, err := authorize(ctx, mailroomId)
	if err != nil {
		return err
	}

	var body servers.Transition
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, codeValidation, "Invalid request body")
	}

	target, err := parcel.ParseStatus(string(body.Status))
	if err != nil {
		return respondError(ctx, err)
	}

	packageID, err := kernel.UUIDFromGoogle(packageId)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewScopedTransitionPackageCommand(mailroomID, packageID, target)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.transitionPackageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, packageFromParcel(updated))
}

// GetFailures handles GET /api/v1/mailrooms/{mailroomId}/failures.
func (s *Server) GetFailures(ctx echo.Context, mailroomId openapi_types.UUID, params servers.GetFailuresParams) error {
	_, mailroomID, err := authorize(ctx, mailroomId)
	if err != nil {
		return err
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetFailuresQuery(mailroomID, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	views, err := s.getFailuresHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]servers.Failure, len(views))
	for i, view := range views {
		response[i] = failureFromView(view)
	}
	return ctx.JSON(http.StatusOK, response)
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, commands.ErrResidentNotFound):
		return metrics.RegistrationResidentNotFound
	case errors.Is(err, pkgnumber.ErrPoolExhausted):
		return metrics.RegistrationMailroomFull
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return metrics.RegistrationRejected
	default:
		return metrics.RegistrationError
	}
}
