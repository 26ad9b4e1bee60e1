package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"inventory-catalog/internal/config"
	"inventory-catalog/internal/database"
	"inventory-catalog/internal/logger"

	"go.uber.org/zap"
)

const usage = `Usage: migrate [-dir migrations] <up|down|status>`

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.Server.MigrationsDir, "Directory containing goose migration files")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *dir, flag.Arg(0), log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, dir, command string, log *zap.Logger) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up":
		return database.RunMigrations(ctx, db, dir, log)
	case "down":
		return database.RollbackMigration(ctx, db, dir, log)
	case "status":
		return database.GetMigrationStatus(ctx, db, dir)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}
