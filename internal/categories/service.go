package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/ids"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
)

var (
	ErrCategoryNotFound = apperrors.NotFound("category not found")
	ErrDuplicateSlug    = apperrors.Conflict("category slug already exists")
	ErrEmptySlug        = apperrors.Validation("title must contain letters or digits", nil)
)

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 100

// Input is used for create and update. Slug is optional and derived from
// Title when empty.
type Input struct {
	Title string
	Slug  string
}

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) GetCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrCategoryNotFound)
	}
	return c, nil
}

// Exists reports whether the category is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

func (s *Service) CreateCategory(ctx context.Context, in Input) (*models.Category, error) {
	slug, err := s.uniqueSlug(ctx, in, "")
	if err != nil {
		return nil, err
	}
	c := &models.Category{ID: uuid.NewString(), Title: strings.TrimSpace(in.Title), Slug: slug}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Infof("category %s created with slug %s", c.ID, c.Slug)
	return c, nil
}

// UpdateCategory changes the title; the slug is regenerated unless given.
func (s *Service) UpdateCategory(ctx context.Context, id string, in Input) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := s.uniqueSlug(ctx, in, id)
	if err != nil {
		return nil, err
	}
	c.Title = strings.TrimSpace(in.Title)
	c.Slug = slug
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DeleteCategories removes exactly the given ids and returns how many existed.
func (s *Service) DeleteCategories(ctx context.Context, list []string) (int64, error) {
	if err := ids.ValidateUUIDs(list); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteMany(ctx, list)
	if err != nil {
		return 0, err
	}
	logger.Infof("bulk deleted %d of %d categories", n, len(list))
	return n, nil
}

func (s *Service) uniqueSlug(ctx context.Context, in Input, selfID string) (string, error) {
	base := Slugify(in.Slug)
	if base == "" {
		base = Slugify(in.Title)
	}
	if base == "" {
		return "", ErrEmptySlug
	}
	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		existing, err := s.repo.FindBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil || existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", ErrDuplicateSlug
}
