package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/categories"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
)

type CategoryHandler struct {
	svc *categories.Service
}

func NewCategoryHandler(s *categories.Service) *CategoryHandler {
	return &CategoryHandler{svc: s}
}

// Register routes under /categories; reads are open to any authenticated user.
func (h *CategoryHandler) Register(rg *gin.RouterGroup) {
	write := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)

	g := rg.Group("/categories")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", write, h.Create)
	g.POST("/bulk-delete", write, h.BulkDelete)
	g.PATCH("/:id", write, h.Update)
	g.DELETE("/:id", write, h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), categories.Input{Title: req.Title, Slug: req.Slug})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), categories.Input{Title: req.Title, Slug: req.Slug})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.svc.DeleteCategories(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
