package http

import (
	"mailroom/internal/core/application/usecases/queries"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/domain/model/parcel"
	"mailroom/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func packageFromParcel(p *parcel.Parcel) servers.Package {
	response := servers.Package{
		Id:          p.ID().Google(),
		MailroomId:  p.MailroomID().Google(),
		ResidentId:  p.ResidentID().Google(),
		StaffId:     p.StaffID().Google(),
		Provider:    p.Provider(),
		Status:      servers.Status(p.Status().String()),
		CreatedAt:   p.CreatedAt(),
		RetrievedAt: p.RetrievedAt(),
		ResolvedAt:  p.ResolvedAt(),
	}
	if number, ok := p.Number(); ok {
		n := number.Int()
		response.Number = &n
	}
	return response
}

func packageFromView(view queries.PackageView) servers.Package {
	response := servers.Package{
		Id:          view.ID.Google(),
		MailroomId:  view.MailroomID.Google(),
		ResidentId:  view.ResidentID.Google(),
		StaffId:     view.StaffID.Google(),
		Number:      view.Number,
		Provider:    view.Provider,
		Status:      servers.Status(view.Status.String()),
		CreatedAt:   view.CreatedAt,
		RetrievedAt: view.RetrievedAt,
		ResolvedAt:  view.ResolvedAt,
	}
	if view.StudentID != "" {
		response.StudentId = &view.StudentID
	}
	if view.ResidentName != "" {
		response.ResidentName = &view.ResidentName
	}
	return response
}

func failureFromView(view queries.FailureView) servers.Failure {
	response := servers.Failure{
		Id:        view.ID.Google(),
		Kind:      view.Kind.String(),
		PackageId: optionalID(view.PackageID),
		StaffId:   optionalID(view.StaffID),
		Reason:    view.Reason,
		CreatedAt: view.CreatedAt,
	}
	if view.StudentID != "" {
		response.StudentId = &view.StudentID
	}
	if view.Provider != "" {
		response.Provider = &view.Provider
	}
	return response
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	g := id.Google()
	return &g
}
