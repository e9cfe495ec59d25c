package repository

import (
	"context"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
)

// PostRepository persists Post aggregates whole. Update carries the
// same compare-and-swap contract as ProfileRepository.Update.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context) ([]entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
