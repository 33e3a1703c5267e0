package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

// MemoryUserRepository keeps users in a map. Used by tests and by
// the service when no database is configured.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.User
	clock func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: map[string]*models.User{}, clock: time.Now}
}

func (r *MemoryUserRepository) List(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) usernameTaken(username, exceptID string) bool {
	for id, u := range r.byID {
		if u.Username == username && id != exceptID {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameTaken(u.Username, "") {
		return ErrDuplicateUsername
	}
	now := r.clock().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return ErrUserNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return ErrDuplicateUsername
	}
	u.UpdatedAt = r.clock().UTC()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}
