package entities

// Product is a catalog row. Prices are integer cents; no floats touch money.
type Product struct {
	ID          int
	Name        string
	Description string
	PriceCents  int64
}

// InventoryRecord tracks one product's stock counters. Availability is
// derived, never stored, so the three counters stay the single source of
// truth.
type InventoryRecord struct {
	ProductID        int
	TotalQuantity    int
	ReservedQuantity int
	SoldQuantity     int
}

// Available returns the units still free to reserve.
func (r InventoryRecord) Available() int {
	return r.TotalQuantity - r.ReservedQuantity - r.SoldQuantity
}

// ReservationStatus is the ledger state of one order line's hold on stock.
type ReservationStatus string

const (
	ReservationReserved ReservationStatus = "RESERVED"
	ReservationSold     ReservationStatus = "SOLD"
)

// Reservation is one ledger row binding an order line to the units it holds.
// The ledger is what makes reservation and sale conversion replay-safe.
type Reservation struct {
	OrderID   int
	ProductID int
	Quantity  int
	Status    ReservationStatus
}

// ReservationLine is one requested hold, before any ledger row exists.
type ReservationLine struct {
	ProductID int
	Quantity  int
}
