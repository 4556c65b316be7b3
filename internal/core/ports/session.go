package ports

import (
	"context"
	"errors"

	"mailroom/internal/core/domain/model/kernel"
)

// ErrUnauthenticated is returned for missing, malformed or expired credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the caller behind a validated credential.
type Identity struct {
	UserID kernel.UUID
}

// SessionValidator turns a bearer credential into an Identity.
type SessionValidator interface {
	Validate(ctx context.Context, bearer string) (Identity, error)
}

// Role is the staff role that scopes what a caller may touch.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// StaffScope is the caller's role and home mailroom.
type StaffScope struct {
	UserID         kernel.UUID
	Role           Role
	MailroomID     kernel.UUID
	OrganizationID kernel.UUID
}

// CanAccessMailroom reports whether the scope covers mailroomID. Admins cover
// every mailroom; everyone else only their own.
func (s StaffScope) CanAccessMailroom(mailroomID kernel.UUID) bool {
	if s.Role == RoleAdmin {
		return true
	}
	return s.MailroomID.Validate() == nil && s.MailroomID.IsEqual(mailroomID)
}

// StaffDirectory resolves the role and scope of an authenticated user.
type StaffDirectory interface {
	// GetScope returns errs.ObjectNotFoundError for users without a staff row.
	GetScope(ctx context.Context, userID kernel.UUID) (StaffScope, error)
}
