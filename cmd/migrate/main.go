// Command migrate applies or rolls back the schema migrations.
//
//	migrate -cmd up
//	migrate -cmd down
//	migrate -cmd goto -version 2
package main

import (
	"flag"

	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up, down or goto")
	version := flag.Uint("version", 0, "target version for goto")
	path := flag.String("path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	migrationsPath := cfg.Database.MigrationsPath
	if *path != "" {
		migrationsPath = *path
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	switch *cmd {
	case "up":
		err = db.RunMigrations(migrationsPath)
	case "down":
		err = db.MigrateDown(migrationsPath)
	case "goto":
		err = db.MigrateToVersion(migrationsPath, *version)
	default:
		log.Fatal().Str("cmd", *cmd).Msg("Unknown migration command")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("Migration failed")
	}
}
