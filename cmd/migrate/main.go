package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"eduassist/internal/config"
	"eduassist/internal/database"
	"eduassist/internal/logger"

	"go.uber.org/zap"
)

const usage = "usage: migrate [up|down|version]"

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to open migrations", zap.Error(err))
	}
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch command {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			l.Fatal("Failed to run migrations", zap.Int("applied", applied), zap.Error(err))
		}
		l.Info("Migrations applied", zap.Int("count", applied))
	case "down":
		if err := migrator.Down(ctx); err != nil {
			l.Fatal("Failed to revert migration", zap.Error(err))
		}
		l.Info("Reverted latest migration")
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			l.Fatal("Failed to read migration version", zap.Error(err))
		}
		fmt.Println(version)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
