// Package posts implements blog post management. Authors own their posts;
// editors and admins may change any post.
package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/ids"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/posts/repository"
	"github.com/quillpress/quillpress/backend/go-services/internal/tokens"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
)

var (
	ErrPostNotFound    = apperrors.NotFound("post not found")
	ErrNotOwner        = apperrors.Forbidden("only the author, an editor or an admin may change this post")
	ErrBulkForbidden   = apperrors.Forbidden("bulk delete requires the editor or admin role")
	ErrInvalidStatus   = apperrors.Validation("invalid post status", nil)
	ErrUnknownCategory = apperrors.Validation("category does not exist", nil)
	ErrMissingIdentity = apperrors.Unauthenticated("authentication required")
	ErrTitleRequired   = apperrors.Validation("title is required", nil)
)

// CategoryChecker is satisfied by categories.Service.
type CategoryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Input struct {
	Title       string
	Description string
	Status      models.PostStatus
	CategoryID  string
}

type Service struct {
	repo       repository.Repository
	categories CategoryChecker
}

// NewService wires the repository; categories may be nil to skip the check.
func NewService(r repository.Repository, c CategoryChecker) *Service {
	return &Service{repo: r, categories: c}
}

func (s *Service) GetPosts(ctx context.Context) ([]*models.Post, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrPostNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) CreatePost(ctx context.Context, actor *tokens.Identity, in Input) (*models.Post, error) {
	if actor == nil {
		return nil, ErrMissingIdentity
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	p := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CategoryID:  in.CategoryID,
		CreatedByID: actor.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Infof("post %s created by %s", p.ID, actor.ID)
	return p, nil
}

func (s *Service) UpdatePost(ctx context.Context, actor *tokens.Identity, id string, in Input) (*models.Post, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Description = in.Description
	p.Status = in.Status
	p.CategoryID = in.CategoryID
	p.UpdatedByID = actor.ID
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePost(ctx context.Context, actor *tokens.Identity, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	logger.Infof("post %s deleted by %s", id, actor.ID)
	return nil
}

// DeletePosts removes exactly the given ids.
func (s *Service) DeletePosts(ctx context.Context, actor *tokens.Identity, list []string) (int64, error) {
	if actor == nil {
		return 0, ErrMissingIdentity
	}
	if !actor.HasRole(models.RoleAdmin, models.RoleEditor) {
		return 0, ErrBulkForbidden
	}
	if err := ids.ValidateUUIDs(list); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteMany(ctx, list)
	if err != nil {
		return 0, err
	}
	logger.Infof("bulk deleted %d of %d posts by %s", n, len(list), actor.ID)
	return n, nil
}

func (s *Service) owned(ctx context.Context, actor *tokens.Identity, id string) (*models.Post, error) {
	if actor == nil {
		return nil, ErrMissingIdentity
	}
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CreatedByID != actor.ID && !actor.HasRole(models.RoleAdmin, models.RoleEditor) {
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *Service) check(ctx context.Context, in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Status == "" {
		in.Status = models.PostDraft
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.CategoryID != "" && s.categories != nil {
		ok, err := s.categories.Exists(ctx, in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownCategory
		}
	}
	return nil
}
