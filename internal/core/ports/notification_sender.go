package ports

import (
	"context"

	"mailroom/internal/core/domain/model/kernel"
)

// Notification is a "your package arrived" message for one resident.
type Notification struct {
	MailroomID    kernel.UUID
	ParcelID      kernel.UUID
	StudentID     string
	RecipientName string
	Email         string
	PackageNumber int
	Provider      string
}

// NotificationSender attempts delivery and reports the outcome.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}
