package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	// 1. Load .env BEFORE importing the function package
	_ "github.com/joho/godotenv/autoload"

	// Blank-import the function package so the init() runs
	_ "event-discovery"

	emulatorAuth "event-discovery/internal/auth"
	"event-discovery/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
)

const (
	localAdminEmail = "admin@localhost.com"
	localAdminName  = "Local Admin"
)

// the main function starts the Functions Framework server - only needed when running locally
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	hostname := ""
	if cfg.LocalOnly {
		hostname = "127.0.0.1"
	}

	// Make sure the admin exists in the Auth Emulator so its token verifies.
	if os.Getenv("FIREBASE_AUTH_EMULATOR_HOST") != "" {
		go createLocalAdminUser(cfg)
	}

	slog.Info("server starting",
		"url", "http://127.0.0.1:"+cfg.Port,
		"swagger", "http://127.0.0.1:"+cfg.Port+"/swagger/index.html",
	)

	if err := funcframework.StartHostPort(hostname, cfg.Port); err != nil {
		slog.Error("funcframework.StartHostPort", "error", err)
		os.Exit(1)
	}
}

func createLocalAdminUser(cfg config.Config) {
	// Give the server/emulator a split second to settle
	time.Sleep(1 * time.Second)

	ctx := context.Background()
	if cfg.AdminUID == "" {
		slog.Warn("skipping local user creation: FIRESTORE_ADMIN_UID not set")
		return
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID})
	if err != nil {
		slog.Warn("admin setup: failed to init firebase app", "error", err)
		return
	}

	client, err := app.Auth(ctx)
	if err != nil {
		slog.Warn("admin setup: failed to get auth client", "error", err)
		return
	}

	if u, err := client.GetUser(ctx, cfg.AdminUID); err == nil {
		slog.Info("admin setup: user already exists", "name", u.DisplayName, "uid", cfg.AdminUID)
	} else {
		params := (&auth.UserToCreate{}).
			UID(cfg.AdminUID).
			Email(localAdminEmail).
			EmailVerified(true).
			Password("admin123").
			DisplayName(localAdminName)

		if _, err := client.CreateUser(ctx, params); err != nil {
			slog.Error("admin setup: failed to create user (emulator might be down)", "error", err)
			return
		}
		slog.Info("admin setup: created user", "uid", cfg.AdminUID)
	}

	token := emulatorAuth.GenerateEmulatorToken(cfg.ProjectID, cfg.AdminUID, localAdminEmail)
	slog.Info("admin token (paste into Swagger 'Authorize')", "authorization", "Bearer "+token)
}
