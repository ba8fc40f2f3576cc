// Command migrate manages canonical-store schema migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/erp/syncbridge/internal/infrastructure/config"
	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/erp/syncbridge/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		action = flag.String("action", "up", "up, down, steps, version, force, or create")
		steps  = flag.Int("steps", 0, "number of steps for -action steps")
		force  = flag.Int("force", 0, "version for -action force")
		name   = flag.String("name", "", "migration name for -action create")
		dir    = flag.String("dir", "migrations", "migrations directory")
	)
	flag.Parse()

	log, err := logger.NewForEnvironment(os.Getenv("SYNC_APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *action == "create" {
		if *name == "" {
			log.Fatal("migration name is required for create")
		}
		mf, err := migration.CreateMigration(*dir, *name, *name)
		if err != nil {
			log.Fatal("create migration", zap.Error(err))
		}
		log.Info("created migration",
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	m, err := migration.NewFromURL(cfg.Database.DSN(), *dir, log)
	if err != nil {
		log.Fatal("create migrator", zap.Error(err))
	}
	defer func() { _ = m.Close() }()

	switch *action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "force":
		err = m.Force(*force)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = m.Version()
		if err == nil {
			log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		log.Fatal("unknown action", zap.String("action", *action))
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}
