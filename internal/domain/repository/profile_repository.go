package repository

import (
	"context"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
)

// ProfileRepository persists Profile aggregates whole, embedded
// sub-collections included. Update is a compare-and-swap keyed on the
// aggregate's version and fails with ErrVersionConflict when another
// writer got there first. Upsert relies on the owner-uniqueness
// constraint so two racing upserts can never produce two rows.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
	Update(ctx context.Context, p *entity.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
