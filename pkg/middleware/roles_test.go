package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	iss := testIssuer(t)
	g := gin.New()
	g.GET("/admin", RequireAuth(iss.AccessVerifier(), nil), RequireRole(models.RoleAdmin, models.RoleEditor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	g.GET("/no-auth", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/admin", "Bearer "+tokenFor(t, iss, "a", models.RoleAdmin)).Code)
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/admin", "Bearer "+tokenFor(t, iss, "e", models.RoleEditor)).Code)

	rw := serve(g, http.MethodGet, "/admin", "Bearer "+tokenFor(t, iss, "w", models.RoleAuthor))
	require.Equal(t, http.StatusForbidden, rw.Code)
	require.Equal(t, "insufficient role", errorBody(t, rw))

	require.Equal(t, http.StatusUnauthorized, serve(g, http.MethodGet, "/no-auth", "").Code)
}

func TestRequireSelfOrRole(t *testing.T) {
	iss := testIssuer(t)
	g := gin.New()
	auth := RequireAuth(iss.AccessVerifier(), nil)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	g.GET("/users/:id", auth, RequireSelfOrRole("id", models.RoleAdmin), ok)
	g.GET("/users/:id/activate", auth, RequireSelfOrRole("id"), ok)

	alice := "Bearer " + tokenFor(t, iss, "alice", models.RoleAuthor)
	admin := "Bearer " + tokenFor(t, iss, "root", models.RoleAdmin)

	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/users/alice", alice).Code)
	require.Equal(t, http.StatusForbidden, serve(g, http.MethodGet, "/users/bob", alice).Code)
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/users/bob", admin).Code)

	// self only: even admins cannot activate another account
	require.Equal(t, http.StatusOK, serve(g, http.MethodGet, "/users/alice/activate", alice).Code)
	require.Equal(t, http.StatusForbidden, serve(g, http.MethodGet, "/users/alice/activate", admin).Code)
}
