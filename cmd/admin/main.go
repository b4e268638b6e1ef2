// Command admin creates an administrator account, or promotes and
// reactivates an existing one.
//
//	go run ./cmd/admin -email owner@example.com -name "Site Owner" -password 's3cretpass'
//
// The password may also come from ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"studio-site-api/internal/core/auth"
	"studio-site-api/internal/core/config"
	"studio-site-api/internal/core/database"
	"studio-site-api/internal/core/logger"
	"studio-site-api/internal/repo"
	"studio-site-api/internal/service"
	"studio-site-api/internal/validate"
)

func main() {
	_ = godotenv.Load()
	var (
		cfgPath  = flag.String("config", "", "config file (defaults to CONFIG_PATH or ./configs/config.local.yaml)")
		name     = flag.String("name", "Admin", "display name")
		email    = flag.String("email", "", "admin email (required)")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password; optional when promoting an existing user")
	)
	flag.Parse()

	if !validate.IsEmail(*email) {
		fmt.Fprintln(os.Stderr, "admin: -email must be a valid address")
		os.Exit(2)
	}
	if *password != "" && (len(*password) < 6 || !validate.StrongPassword(*password)) {
		fmt.Fprintln(os.Stderr, "admin: password must be at least 6 characters and contain a letter and a number")
		os.Exit(2)
	}

	cfg := config.Load(*cfgPath)
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	code := run(cfg, log, *name, *email, *password)
	cleanup()
	os.Exit(code)
}

func run(cfg *config.Config, log *zap.Logger, name, email, password string) int {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       2,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, log)
	if err != nil {
		log.Error("db open", zap.Error(err))
		return 1
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(db); err != nil {
		log.Error("automigrate failed", zap.Error(err))
		return 1
	}

	svc := service.NewAuthService(repo.NewUserRepo(db), &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	u, created, err := svc.EnsureAdmin(ctx, name, email, password)
	if err != nil {
		log.Error("ensure admin", zap.Error(err))
		return 1
	}
	if created {
		log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
	} else {
		log.Info("existing user promoted to admin", zap.String("id", u.ID), zap.String("email", u.Email))
	}
	return 0
}
