package repository

import (
	"context"
	"errors"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

var (
	ErrNotFound = errors.New("post not found")
)

// Repository is implemented by MemoryRepo and MongoRepo.
type Repository interface {
	Create(ctx context.Context, p *models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
