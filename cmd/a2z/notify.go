package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/notifications"
)

// publish sends a run-outcome notification without failing the command;
// delivery problems only surface in the log.
func publish(cmd *cobra.Command, ctx *commandContext, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := ctx.notifier().Publish(cmd.Context(), event, payload); err != nil {
		logger.Warn("notification delivery failed",
			logging.String(logging.FieldEventType, "notify_failed"),
			logging.String("notify_event", string(event)),
			logging.Error(err))
	}
}
