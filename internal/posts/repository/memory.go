package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

// MemoryRepo is an in-memory repository used by unit tests and when no
// database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*models.Post
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*models.Post)}
}

func (m *MemoryRepo) Create(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

// List returns posts newest first.
func (m *MemoryRepo) List(_ context.Context) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Post, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
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
