package outbox

import (
	"context"
	"log/slog"
	"time"
)

// PendingSource is the store surface the relay drains.
type PendingSource interface {
	ListPending(ctx context.Context, limit int) ([]Entry, error)
	MarkProcessed(ctx context.Context, id int64, at time.Time) error
}

// Publisher is the broker surface the relay publishes through.
type Publisher interface {
	Publish(ctx context.Context, destination string, key []byte, payload []byte) error
}

// Relay drains pending outbox entries and publishes each to the destination
// named after its event type. A publish failure leaves the entry PENDING for
// the next poll; a store failure aborts the loop so the outer supervisor can
// restart it with backoff. Publishing and marking are separate steps, so a
// crash between them yields a duplicate publish rather than a lost event.
type Relay struct {
	Outbox       PendingSource
	Publisher    Publisher
	Service      string
	PollInterval time.Duration
	BatchSize    int
	Logger       *slog.Logger
}

// Run polls until the context is cancelled. It returns a non-nil error only
// on infrastructure failures of the store itself.
func (r Relay) Run(ctx context.Context) error {
	interval := r.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for {
		published, err := r.RunOnce(ctx)
		if err != nil {
			return err
		}
		if published > 0 {
			// More entries may be waiting; poll again immediately.
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunOnce drains one batch and reports how many entries were published and
// marked processed.
func (r Relay) RunOnce(ctx context.Context) (int, error) {
	logger := r.logger()

	pending, err := r.Outbox.ListPending(ctx, r.BatchSize)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "outbox_list_pending_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"service", r.Service,
			"error", err.Error(),
		)
		return 0, err
	}

	published := 0
	for _, entry := range pending {
		if err := r.Publisher.Publish(ctx, entry.EventType, nil, entry.Payload); err != nil {
			logger.Error("outbox publish failed, entry stays pending",
				"event", "outbox_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"service", r.Service,
				"outbox_id", entry.ID,
				"event_type", entry.EventType,
				"error", err.Error(),
			)
			continue
		}

		if err := r.Outbox.MarkProcessed(ctx, entry.ID, time.Now().UTC()); err != nil {
			logger.Error("outbox mark processed failed",
				"event", "outbox_mark_processed_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"service", r.Service,
				"outbox_id", entry.ID,
				"error", err.Error(),
			)
			return published, err
		}
		published++

		logger.Info("outbox entry published",
			"event", "outbox_entry_published",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"service", r.Service,
			"outbox_id", entry.ID,
			"event_type", entry.EventType,
		)
	}
	return published, nil
}

func (r Relay) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
