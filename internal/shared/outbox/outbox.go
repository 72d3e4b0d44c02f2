package outbox

import "time"

const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
)

// Entry is an outbox row persisted inside the same DB transaction as the
// state change it reports. The relay publishes pending rows and flips them to
// PROCESSED; rows are never deleted and PROCESSED never reverts.
type Entry struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	EventType   string `gorm:"size:128;not null"`
	Payload     []byte `gorm:"not null"`
	Status      string `gorm:"size:16;not null;default:PENDING;index"`
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func (Entry) TableName() string { return "outbox" }
