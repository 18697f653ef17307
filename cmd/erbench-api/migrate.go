package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erbench/erbench/internal/config"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/pkg/log"
	"github.com/erbench/erbench/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		store := store.NewStore(db)
		defer store.Close()

		if cfg.Service.MigrationsFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationsFolder); err != nil {
				zap.S().Fatalf("running migrations: %v", err)
			}
		} else {
			if err := store.InitialMigration(); err != nil {
				zap.S().Fatalf("running initial migration: %v", err)
			}
		}

		if err := store.Seed(); err != nil {
			zap.S().Fatalf("seeding catalogs: %v", err)
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
