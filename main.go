package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quillpress/quillpress/backend/go-services/handlers"
	"github.com/quillpress/quillpress/backend/go-services/internal/auth"
	"github.com/quillpress/quillpress/backend/go-services/internal/categories"
	"github.com/quillpress/quillpress/backend/go-services/internal/config"
	"github.com/quillpress/quillpress/backend/go-services/internal/database"
	"github.com/quillpress/quillpress/backend/go-services/internal/events"
	"github.com/quillpress/quillpress/backend/go-services/internal/password"
	"github.com/quillpress/quillpress/backend/go-services/internal/posts"
	postrepo "github.com/quillpress/quillpress/backend/go-services/internal/posts/repository"
	"github.com/quillpress/quillpress/backend/go-services/internal/sessions"
	"github.com/quillpress/quillpress/backend/go-services/internal/storage"
	"github.com/quillpress/quillpress/backend/go-services/internal/tokens"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
	"github.com/quillpress/quillpress/backend/go-services/pkg/metrics"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectMongoWithRetry(ctx, cfg.Database.URL, cfg.Database.Timeout, 5, time.Second)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.Database.Name)

	userRepo, err := users.NewMongoUserRepository(ctx, db.Collection(database.UsersCollection))
	if err != nil {
		logger.Fatalf("users repository: %v", err)
	}
	catRepo, err := categories.NewMongoRepository(ctx, db.Collection(database.CategoriesCollection))
	if err != nil {
		logger.Fatalf("categories repository: %v", err)
	}
	postRepo, err := postrepo.NewMongoRepo(ctx, db.Collection(database.PostsCollection))
	if err != nil {
		logger.Fatalf("posts repository: %v", err)
	}

	readiness := map[string]handlers.ReadinessCheck{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	// Redis is optional: sessions fall back to Mongo, events to the log and
	// logout blacklisting is disabled without it.
	var (
		rdb       *redis.Client
		sessRepo  sessions.Repository
		blacklist *sessions.Blacklist
		publisher events.Publisher = events.LogPublisher{}
	)
	if cfg.Redis.Enabled() {
		c := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
			_ = c.Close()
		} else {
			rdb = c
			defer func() { _ = rdb.Close() }()
			sessRepo = sessions.NewRedisRepository(rdb, "session:")
			blacklist = sessions.NewBlacklist(rdb)
			publisher = events.NewRedisPublisher(rdb, cfg.Events.ChannelPrefix)
			readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			logger.Infof("using Redis for sessions, blacklist and events: %s", cfg.Redis.Addr())
		}
	}
	if sessRepo == nil {
		mrepo, err := sessions.NewMongoRepository(ctx, db.Collection(database.SessionsCollection))
		if err != nil {
			logger.Fatalf("sessions repository: %v", err)
		}
		sessRepo = mrepo
	}

	sessSvc := sessions.NewService(sessRepo)
	hasher := password.NewBcrypt(cfg.BcryptCost)
	userOpts := []users.Option{users.WithSessionRevoker(sessSvc)}
	if cfg.Storage.Enabled() {
		store, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Warnf("avatar storage disabled: %v", err)
		} else {
			userOpts = append(userOpts, users.WithAvatarStore(store))
			logger.Infof("avatar storage: bucket %s at %s", store.Bucket(), cfg.Storage.Endpoint)
		}
	}

	issuer, err := tokens.NewIssuer(tokens.Config{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTokenTTL,
	})
	if err != nil {
		logger.Fatalf("token issuer: %v", err)
	}

	userSvc := users.NewService(userRepo, hasher, publisher, userOpts...)
	catSvc := categories.NewService(catRepo)
	postSvc := posts.NewService(postRepo, catSvc)
	authSvc := auth.NewService(userSvc, hasher, issuer, sessSvc, blacklist)

	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			limiter = middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window)
		} else {
			limiter = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := handlers.NewRouter(handlers.Deps{
		Auth:        authSvc,
		Verifier:    issuer.AccessVerifier(),
		Users:       userSvc,
		Categories:  catSvc,
		Posts:       postSvc,
		RateLimiter: limiter,
		Readiness:   readiness,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("starting blog service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
		os.Exit(1)
	}
}
