package main

import (
	"flag"
	"fmt"
	"os"

	"go-inventory-console/internal/backend"
	"go-inventory-console/internal/repository"
	"go-inventory-console/pkg/config"
	"go-inventory-console/pkg/database"
	"go-inventory-console/pkg/jwt"
	"go-inventory-console/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("user", "manager", "account to reset")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: reset-password -user NAME -password NEW")
		os.Exit(2)
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(cfg)
	defer log.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// 3. Hash and store the new password
	auth := backend.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration), log)
	if err := auth.ResetPassword(*username, *password); err != nil {
		log.Fatal("Failed to reset password", zap.String("username", *username), zap.Error(err))
	}

	log.Info("Password reset", zap.String("username", *username))
}
