package ports

import (
	"context"

	"medbook/services/inventory/domain/entities"
)

// ReservationOutcome is the result of one reserve-order attempt.
type ReservationOutcome int

const (
	// ReservationUnknown is the zero outcome and only accompanies a non-nil
	// error.
	ReservationUnknown ReservationOutcome = iota
	// ReservationApplied means every line was reserved and the confirmation
	// event was enqueued in the same transaction.
	ReservationApplied
	// ReservationDuplicate means ledger rows for the order already exist; the
	// delivery is a replay and nothing was changed.
	ReservationDuplicate
	// ReservationInsufficient means at least one line could not be covered;
	// the whole attempt rolled back and no counter moved.
	ReservationInsufficient
)

// InventoryRepository is the storage contract of the inventory service.
// ReserveOrder and MarkOrderSold carry their outcome events inside the same
// transaction as the counter updates.
type InventoryRepository interface {
	// ReserveOrder atomically reserves every line or none. Lines must arrive
	// sorted by product id so concurrent orders touch rows in the same order.
	ReserveOrder(ctx context.Context, orderID int, lines []entities.ReservationLine) (ReservationOutcome, error)

	// RejectOrder records the rejection event for an order that could not be
	// covered. It runs in its own transaction; counters are already untouched.
	RejectOrder(ctx context.Context, orderID int) error

	// MarkOrderSold converts the order's RESERVED ledger rows into SOLD and
	// moves the held units from reserved to sold counters. Replays find no
	// RESERVED rows and change nothing.
	MarkOrderSold(ctx context.Context, orderID int) (int, error)

	ListProducts(ctx context.Context) ([]entities.Product, error)
	GetInventory(ctx context.Context, productID int) (entities.InventoryRecord, error)
}
