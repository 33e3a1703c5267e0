package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/posts"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
)

type PostHandler struct {
	svc *posts.Service
}

func NewPostHandler(s *posts.Service) *PostHandler {
	return &PostHandler{svc: s}
}

// Register routes under /posts. Ownership of single posts is checked by the service.
func (h *PostHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/posts")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/bulk-delete", middleware.RequireRole(models.RoleAdmin, models.RoleEditor), h.BulkDelete)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *PostHandler) List(c *gin.Context) {
	list, err := h.svc.GetPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostRequest
	if !bind(c, &req) {
		return
	}
	id, _ := middleware.CurrentIdentity(c)
	p, err := h.svc.CreatePost(c.Request.Context(), id, postInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) Update(c *gin.Context) {
	var req PostRequest
	if !bind(c, &req) {
		return
	}
	id, _ := middleware.CurrentIdentity(c)
	p, err := h.svc.UpdatePost(c.Request.Context(), id, c.Param("id"), postInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)
	if err := h.svc.DeletePost(c.Request.Context(), id, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if !bind(c, &req) {
		return
	}
	id, _ := middleware.CurrentIdentity(c)
	n, err := h.svc.DeletePosts(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func postInput(req PostRequest) posts.Input {
	return posts.Input{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
	}
}
