package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/edulane/edulane-server-go/pkg/config"
	"github.com/edulane/edulane-server-go/pkg/database"
	"github.com/edulane/edulane-server-go/pkg/logger"
)

// Standalone migration runner for deploy pipelines that migrate before
// rolling the app servers.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	db, err := database.Connect(context.Background(), cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		log.Fatal(err)
	}
	defer database.Close(db, appLogger)

	if err := database.Migrate(db); err != nil {
		appLogger.Error("migrations failed", slog.String("error", err.Error()))
		log.Fatal(err)
	}

	appLogger.Info("migrations applied")
}
