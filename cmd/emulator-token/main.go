// emulator-token prints a bearer token the Firebase Auth Emulator accepts.
package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"

	"event-discovery/internal/auth"
	"event-discovery/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var uid, email string

	flagSet := pflag.NewFlagSet("emulator-token", pflag.ContinueOnError)
	flagSet.StringVar(&uid, "uid", "", "user id (default: FIRESTORE_ADMIN_UID)")
	flagSet.StringVar(&email, "email", "admin@localhost.com", "email claim the API keys user data by")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if uid == "" {
		uid = cfg.AdminUID
	}
	if uid == "" {
		return errors.New("--uid or FIRESTORE_ADMIN_UID is required")
	}

	fmt.Printf("Bearer %s\n", auth.GenerateEmulatorToken(cfg.ProjectID, uid, email))
	return nil
}
