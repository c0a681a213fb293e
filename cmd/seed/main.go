package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/watchparty-api/config"
	"github.com/oksasatya/watchparty-api/internal/application"
	pginfra "github.com/oksasatya/watchparty-api/internal/infrastructure/postgres"
	"github.com/oksasatya/watchparty-api/pkg/helpers"
)

var demoUsers = []application.SignupInput{
	{Name: "Alice", Username: "alice", Email: "alice@x.com", Password: "secret1", Preferences: `{"movies":true}`},
	{Name: "Bob", Username: "bob", Email: "bob@x.com", Password: "secret2", Preferences: `{"series":true}`},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	svc := application.NewUserService(
		pginfra.NewUserRepository(pool),
		helpers.NewBcryptHasher(cfg.BcryptCost),
		nil, nil, nil,
		logger,
	)

	for _, in := range demoUsers {
		u, err := svc.Signup(ctx, in)
		switch {
		case errors.Is(err, application.ErrDuplicateKey):
			fmt.Printf("user exists: email=%s\n", in.Email)
		case err != nil:
			log.Fatalf("failed to seed %s: %v", in.Email, err)
		default:
			fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, in.Password)
		}
	}
}
