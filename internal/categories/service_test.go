package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  Go & Rust!! ":       "go-rust",
		"Crème Brûlée":         "creme-brulee",
		"Ünïcödé--Tëst":        "unicode-test",
		"2024 Recap: Part #1":  "2024-recap-part-1",
		"!!!":                  "",
		"already-a-slug":       "already-a-slug",
		"Über__cool___things_": "uber-cool-things",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreateCategory_SlugCollisions(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, err := svc.CreateCategory(ctx, Input{Title: "Tech News"})
	require.NoError(t, err)
	require.Equal(t, "tech-news", a.Slug)

	b, err := svc.CreateCategory(ctx, Input{Title: "Tech  News!"})
	require.NoError(t, err)
	require.Equal(t, "tech-news-2", b.Slug)

	c, err := svc.CreateCategory(ctx, Input{Title: "Tëch News"})
	require.NoError(t, err)
	require.Equal(t, "tech-news-3", c.Slug)

	d, err := svc.CreateCategory(ctx, Input{Title: "Custom", Slug: "My Slug"})
	require.NoError(t, err)
	require.Equal(t, "my-slug", d.Slug)

	_, err = svc.CreateCategory(ctx, Input{Title: "???"})
	require.ErrorIs(t, err, ErrEmptySlug)
}

func TestUpdateCategory_RegeneratesSlug(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, Input{Title: "Golang"})
	require.NoError(t, err)

	// keeping the same title keeps the same slug, no self-collision
	same, err := svc.UpdateCategory(ctx, c.ID, Input{Title: "Golang"})
	require.NoError(t, err)
	require.Equal(t, "golang", same.Slug)

	up, err := svc.UpdateCategory(ctx, c.ID, Input{Title: "Go Language"})
	require.NoError(t, err)
	require.Equal(t, "go-language", up.Slug)
	require.Equal(t, "Go Language", up.Title)

	got, err := svc.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "go-language", got.Slug)
	require.False(t, got.CreatedAt.IsZero())

	_, err = svc.UpdateCategory(ctx, uuid.NewString(), Input{Title: "x"})
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetAndDeleteCategory(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, Input{Title: "Travel"})
	require.NoError(t, err)

	ok, err := svc.Exists(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	_, err = svc.GetCategory(ctx, c.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	require.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), ErrCategoryNotFound)
}

func TestDeleteCategories_RemovesExactlyThoseIDs(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	var created []string
	for _, title := range []string{"A", "B", "C", "D"} {
		c, err := svc.CreateCategory(ctx, Input{Title: title})
		require.NoError(t, err)
		created = append(created, c.ID)
	}

	n, err := svc.DeleteCategories(ctx, created[:3])
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	_, err = svc.GetCategory(ctx, created[0])
	require.ErrorIs(t, err, ErrCategoryNotFound)

	left, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, created[3], left[0].ID)
}

func TestDeleteCategories_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.DeleteCategories(ctx, nil)
	require.ErrorIs(t, err, ids.ErrEmpty)

	_, err = svc.DeleteCategories(ctx, []string{uuid.NewString(), "not-a-uuid"})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	n, err := svc.DeleteCategories(ctx, []string{uuid.NewString()})
	require.NoError(t, err)
	require.Zero(t, n)
}
