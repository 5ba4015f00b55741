package worker

import (
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"
)

// PendingSweeper expires pending bookings whose payment did not arrive
// within the grace period.
type PendingSweeper struct{ *Periodic }

func NewPendingSweeper(expiry commands.ExpiryCommands, cfg config.Config) *PendingSweeper {
	return &PendingSweeper{NewPeriodic("pending_sweeper", cfg.Booking.SweepInterval, expiry.ExpirePending)}
}

// OutboxDispatcher relays committed lifecycle events to the broker.
type OutboxDispatcher struct{ *Periodic }

func NewOutboxDispatcher(outbox commands.OutboxCommands, cfg config.Config) *OutboxDispatcher {
	return &OutboxDispatcher{NewPeriodic("outbox_dispatcher", cfg.Booking.OutboxInterval, outbox.Relay)}
}
