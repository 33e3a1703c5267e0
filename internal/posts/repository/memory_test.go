package repository

import (
	"context"
	"testing"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCRUD(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	p := &models.Post{Title: "Hello", Description: "first post", Status: models.PostDraft, CreatedByID: "u1"}
	require.NoError(t, r.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "first post", got.Description)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got.Description = "edited"
	require.NoError(t, r.Update(ctx, got))
	got2, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got2.Description)

	// stored copies are isolated from caller mutation
	got2.Title = "mutated"
	got3, _ := r.Get(ctx, p.ID)
	require.Equal(t, "Hello", got3.Title)

	require.NoError(t, r.Delete(ctx, p.ID))
	_, err = r.Get(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, p.ID), ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, p), ErrNotFound)
}

func TestMemoryRepoDeleteMany(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		p := &models.Post{Title: "p", CreatedByID: "u1"}
		require.NoError(t, r.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	n, err := r.DeleteMany(ctx, []string{ids[0], ids[2], "missing"})
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, ids[1], list[0].ID)
}
