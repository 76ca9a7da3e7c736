// import loads a browser storage dump from the single-page app into the
// configured store. Store selection follows the same environment as the
// function (STORE_DRIVER, SQLITE_PATH, GOOGLE_CLOUD_PROJECT, ...).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"

	"event-discovery/internal/config"
	"event-discovery/internal/logging"
	"event-discovery/internal/migration"
	"event-discovery/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var filePath string
	var dryRun bool

	flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flagSet.StringVarP(&filePath, "file", "f", "", "path to the exported storage JSON")
	flagSet.BoolVar(&dryRun, "dry-run", false, "parse and count without writing")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if filePath == "" {
		return errors.New("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.ProjectID, cfg.FirestoreDatabase, cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := migration.NewImporter(store.Events(), store.Reviews(), store.Relations(),
		migration.WithDryRun(dryRun),
		migration.WithLogger(logger.With("driver", cfg.StoreDriver)),
	)
	summary, err := importer.Import(ctx, raw)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d records failed to import", len(summary.Errors))
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `import loads events, reviews, registrations, favorites and organizer
follows exported from the browser app's local storage.

Records that already exist are skipped, so the import can be re-run.
Stored passwords are never imported.

Usage:
  import --file storage.json [--dry-run]

Flags:
%s`, flagSet.FlagUsages())
}
