package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quillpress/quillpress/backend/go-services/internal/auth"
	"github.com/quillpress/quillpress/backend/go-services/internal/categories"
	"github.com/quillpress/quillpress/backend/go-services/internal/posts"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Deps is everything the router needs. RateLimiter and Gatherer are optional.
type Deps struct {
	Auth       *auth.Service
	Verifier   middleware.Verifier
	Users      *users.Service
	Categories *categories.Service
	Posts      *posts.Service

	RateLimiter gin.HandlerFunc
	Readiness   map[string]ReadinessCheck
	Gatherer    prometheus.Gatherer
}

var startTime = time.Now()

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(cors(), gin.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readyHandler(d.Readiness))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	RegisterSwagger(r)

	limit := func(g *gin.RouterGroup) {
		if d.RateLimiter != nil {
			g.Use(d.RateLimiter)
		}
	}

	ah := NewAuthHandler(d.Auth)
	public := r.Group("/auth")
	limit(public)
	ah.RegisterPublic(public)

	// the limiter runs after RequireAuth so it can key on the subject
	protected := r.Group("/")
	protected.Use(middleware.RequireAuth(d.Verifier, d.Auth))
	limit(protected)

	ah.RegisterProtected(protected.Group("/auth"))
	NewUserHandler(d.Users).Register(protected)
	NewCategoryHandler(d.Categories).Register(protected)
	NewPostHandler(d.Posts).Register(protected)

	return r
}

// cors is the permissive dev policy; OPTIONS preflights stop here.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		h.Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// readyHandler returns 200 only when every check passes.
func readyHandler(checks map[string]ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			ok := check(ctx) == nil
			deps[name] = ok
			ready = ready && ok
		}

		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	}
}
