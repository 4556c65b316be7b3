package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Status is a package lifecycle status.
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusRetrieved Status = "RETRIEVED"
	StatusResolved  Status = "RESOLVED"
	StatusFailed    Status = "FAILED"
)

// NewPackage is the body of RegisterPackage.
type NewPackage struct {
	StudentId string `json:"studentId"`
	Provider  string `json:"provider"`
}

// Transition is the body of TransitionPackage.
type Transition struct {
	Status Status `json:"status"`
}

// Package is a registered package.
type Package struct {
	Id           openapi_types.UUID `json:"id"`
	MailroomId   openapi_types.UUID `json:"mailroomId"`
	ResidentId   openapi_types.UUID `json:"residentId"`
	StaffId      openapi_types.UUID `json:"staffId"`
	StudentId    *string            `json:"studentId,omitempty"`
	ResidentName *string            `json:"residentName,omitempty"`
	Number       *int               `json:"number,omitempty"`
	Provider     string             `json:"provider"`
	Status       Status             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	RetrievedAt  *time.Time         `json:"retrievedAt,omitempty"`
	ResolvedAt   *time.Time         `json:"resolvedAt,omitempty"`
}

// Failure is a failure record kept for staff follow-up.
type Failure struct {
	Id        openapi_types.UUID  `json:"id"`
	Kind      string              `json:"kind"`
	PackageId *openapi_types.UUID `json:"packageId,omitempty"`
	StaffId   *openapi_types.UUID `json:"staffId,omitempty"`
	StudentId *string             `json:"studentId,omitempty"`
	Provider  *string             `json:"provider,omitempty"`
	Reason    string              `json:"reason"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetFailuresParams are the query parameters of GetFailures.
type GetFailuresParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}
