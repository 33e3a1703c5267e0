package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
)

// MaxAvatarBytes bounds avatar uploads.
const MaxAvatarBytes = 5 << 20

type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(s *users.Service) *UserHandler {
	return &UserHandler{svc: s}
}

// Register routes under /users. Expects rg to run behind RequireAuth.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	admin := middleware.RequireRole(models.RoleAdmin)
	selfOrAdmin := middleware.RequireSelfOrRole("id", models.RoleAdmin)
	selfOnly := middleware.RequireSelfOrRole("id")

	u := rg.Group("/users")
	u.GET("", admin, h.List)
	u.POST("", admin, h.Create)
	u.GET("/:id", selfOrAdmin, h.Get)
	u.DELETE("/:id", admin, h.Delete)
	u.PATCH("/:id/profile", selfOrAdmin, h.UpdateProfile)
	u.PATCH("/:id/role", admin, h.UpdateRole)
	u.PATCH("/:id/activate", selfOnly, h.Activate)
	u.PATCH("/:id/password", selfOnly, h.UpdatePassword)
	u.POST("/:id/reset-password", admin, h.ResetPassword)
	u.PUT("/:id/avatar", selfOrAdmin, h.UploadAvatar)
	u.GET("/:id/avatar", selfOrAdmin, h.AvatarURL)
}

func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) Get(c *gin.Context) {
	v, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Create stores the account; the temporary password leaves only via the UserCreated event.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.CreateUser(c.Request.Context(), users.CreateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.UpdateUserProfile(c.Request.Context(), c.Param("id"), users.ProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *UserHandler) Activate(c *gin.Context) {
	var req PasswordChangeRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.ActivateUser(c.Request.Context(), c.Param("id"), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req PasswordChangeRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.UpdateUserPassword(c.Request.Context(), c.Param("id"), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	if err := h.svc.ResetUserPassword(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar accepts multipart field "file".
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAvatarBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required", "details": err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	v, err := h.svc.UploadAvatar(c.Request.Context(), c.Param("id"), f, fh.Size, fh.Header.Get("Content-Type"), fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *UserHandler) AvatarURL(c *gin.Context) {
	url, err := h.svc.AvatarURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(users.AvatarURLTTL.Seconds())})
}
