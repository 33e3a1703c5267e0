package categories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*models.Category
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Category)}
}

func (m *MemoryRepository) List(_ context.Context) ([]*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Category, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) slugTaken(slug, exceptID string) bool {
	for id, c := range m.store {
		if c.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) Create(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(c.Slug, "") {
		return ErrDuplicateSlug
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MemoryRepository) Update(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[c.ID]
	if !ok {
		return ErrCategoryNotFound
	}
	if m.slugTaken(c.Slug, c.ID) {
		return ErrDuplicateSlug
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.store[id]; ok {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}
