package service

import (
	"context"

	"github.com/rs/zerolog"

	"noise-sentinel/internal/model"
)

// publish delivers a notification after the write it describes has committed. Delivery
// failures are logged and dropped.
func publish(ctx context.Context, notifier Notifier, log zerolog.Logger, notification model.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, notification); err != nil {
		log.Warn().
			Err(err).
			Str("kind", string(notification.Kind)).
			Str("recipient", notification.Recipient).
			Msg("notification delivery failed")
	}
}
