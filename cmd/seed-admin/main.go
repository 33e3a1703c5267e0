// Command seed-admin creates an administrator account and prints its
// temporary password. The account must be activated on first login.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/config"
	"github.com/quillpress/quillpress/backend/go-services/internal/database"
	"github.com/quillpress/quillpress/backend/go-services/internal/events"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/password"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	username := flag.StringP("username", "u", "admin", "username of the new administrator")
	name := flag.StringP("name", "n", "Administrator", "display name")
	email := flag.StringP("email", "e", "", "contact email")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongoWithRetry(ctx, cfg.Database.URL, cfg.Database.Timeout, 3, time.Second)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo, err := users.NewMongoUserRepository(ctx, client.Database(cfg.Database.Name).Collection(database.UsersCollection))
	if err != nil {
		logger.Fatalf("users repository: %v", err)
	}

	// capture the temporary password instead of sending it anywhere
	var temp string
	capture := events.PublisherFunc(func(_ context.Context, e events.Event) error {
		if uc, ok := e.(events.UserCreated); ok {
			temp = uc.TemporaryPassword
		}
		return nil
	})

	svc := users.NewService(repo, password.NewBcrypt(cfg.BcryptCost), capture)
	v, err := svc.CreateUser(ctx, users.CreateUserInput{
		Name:     *name,
		Username: *username,
		Email:    *email,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created admin %s (%s)\ntemporary password: %s\n", v.Username, v.ID, temp)
}
