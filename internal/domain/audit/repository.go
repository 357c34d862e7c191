package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists audit entries
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, q Query) ([]Entry, int64, error)
}
