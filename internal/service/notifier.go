package service

import (
	"context"
	"log/slog"

	"go-shop-api/internal/model"
)

// ResetNotifier delivers a freshly issued password-reset token to its owner.
type ResetNotifier interface {
	SendResetToken(ctx context.Context, user *model.User, resetToken string) error
}

// LogNotifier writes reset tokens to the log. The token itself is only
// visible at debug level.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendResetToken(ctx context.Context, user *model.User, resetToken string) error {
	n.logger.InfoContext(ctx, "password reset requested", "user_id", user.ID, "email", user.Email)
	n.logger.DebugContext(ctx, "password reset token issued", "user_id", user.ID, "reset_token", resetToken)
	return nil
}
