// Package commands contains the operations that change package state: the
// registration workflow, status transitions and number reconciliation.
// Every command follows the same pattern: a validated Command value built by
// its constructor, and a CommandHandler whose Handle drives ports and the
// domain model inside an explicit transaction boundary.
package commands

import (
	"context"

	"mailroom/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides the package repository of the unit of work.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// ResidentRepoFactory provides the resident repository of the unit of work.
	ResidentRepoFactory interface {
		ResidentRepository() ports.ResidentRepository
	}

	// ParcelUoW is used by handlers that only touch packages.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	// ParcelUoWFactory creates package units of work.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// RegistrationUoW is used by the registration workflow, which reads
	// residents and writes packages.
	RegistrationUoW interface {
		TxManager
		ParcelRepoFactory
		ResidentRepoFactory
	}

	// RegistrationUoWFactory creates registration units of work.
	RegistrationUoWFactory interface {
		Create() RegistrationUoW
	}
)

// NotificationQueue accepts notifications without waiting for delivery.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n ports.Notification)
}
