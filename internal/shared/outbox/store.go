package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotInTransaction is returned when Enqueue is called with a plain DB
// handle instead of an open transaction.
var ErrNotInTransaction = errors.New("outbox: enqueue requires an open transaction")

// Store persists and drains a service's outbox table.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Enqueue writes a pending entry using the caller's transaction handle, so
// the event exists iff the surrounding business write commits. The event type
// doubles as the broker destination.
func (s *Store) Enqueue(tx *gorm.DB, eventType string, payload any) error {
	if tx == nil {
		return ErrNotInTransaction
	}
	committer, ok := tx.Statement.ConnPool.(gorm.TxCommitter)
	if !ok || committer == nil {
		return ErrNotInTransaction
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("outbox: marshal %s payload: %w", eventType, err)
	}

	entry := Entry{
		EventType: eventType,
		Payload:   body,
		Status:    StatusPending,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("outbox: enqueue %s: %w", eventType, err)
	}
	return nil
}

// ListPending returns pending entries ordered by id, which gives best-effort
// in-order delivery per service.
func (s *Store) ListPending(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []Entry
	err := s.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("outbox: list pending: %w", err)
	}
	return rows, nil
}

// MarkProcessed flips one entry to PROCESSED in its own short transaction.
// The update is conditional so a processed entry can never revert.
func (s *Store) MarkProcessed(ctx context.Context, id int64, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":       StatusProcessed,
			"processed_at": at.UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("outbox: mark processed %d: %w", id, result.Error)
	}
	return nil
}
