package postgresadapter

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator mints v4 payment identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(ctx context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
