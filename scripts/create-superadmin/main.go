package main

import (
	"context"
	"flag"
	"os"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/hiredvalley/career-server-go/internal/features/user"
	"github.com/hiredvalley/career-server-go/pkg/config"
	"github.com/hiredvalley/career-server-go/pkg/database"
	"github.com/hiredvalley/career-server-go/pkg/logger"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "Super Admin", "full name of the superadmin account")
	email := flag.String("email", "", "email of the superadmin account")
	password := flag.String("password", "", "password of the superadmin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *email == "" || *password == "" {
		log.Error("both -email and -password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.ConnectWithRetry(ctx, cfg.Database, log, 3, 2*time.Second)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db, log)

	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	usr, err := user.Create(db, user.CreateInput{
		FullName: *name,
		Email:    *email,
		Password: *password,
		UserType: types.UserTypeSuperAdmin,
	})
	if err != nil {
		log.Error("failed to create superadmin", "error", err)
		os.Exit(1)
	}

	log.Info("superadmin created", "id", usr.ID, "email", usr.Email)
}
