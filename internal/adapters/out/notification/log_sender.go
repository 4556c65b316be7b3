package notification

import (
	"context"
	"log/slog"

	"mailroom/internal/core/ports"
)

// LogSender writes notifications to the log instead of sending them. It is
// used when no mail server is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With("component", "LogSender")}
}

func (s *LogSender) Send(ctx context.Context, n ports.Notification) error {
	s.logger.InfoContext(ctx, "package arrival notification",
		"to", n.Email,
		"recipient", n.RecipientName,
		"package_id", n.ParcelID.String(),
		"number", n.PackageNumber,
		"provider", n.Provider,
	)
	return nil
}
