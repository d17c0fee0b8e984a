package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/timbranthover/envelopedesk/internal/admin"
	"github.com/timbranthover/envelopedesk/internal/config"
	"github.com/timbranthover/envelopedesk/internal/database"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/directory"
	"github.com/timbranthover/envelopedesk/internal/esign"
	"github.com/timbranthover/envelopedesk/internal/kv"
	"github.com/timbranthover/envelopedesk/internal/logging"
	"github.com/timbranthover/envelopedesk/internal/tui"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := repository.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	acctRepo := repository.NewAccountRepo(db)
	formRepo := repository.NewFormRepo(db)

	dir, err := directory.Load(ctx, acctRepo, cfg.UI.ResultLimit)
	if err != nil {
		log.Fatalf("load directory: %v", err)
	}

	store, err := kv.NewFileStore(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("open data dir: %v", err)
	}

	adminSession := admin.NewSession(cfg.Admin)
	logger.Info("session resolved", zap.Bool("admin", adminSession.IsAdmin()))

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	deps := tui.Deps{
		Dir:      dir,
		Persist:  workitems.NewPersister(store, logger),
		Provider: signatureProvider(cfg.ESign, logger),
		Admin:    adminSession,
		Banner:   admin.NewBanner(store),
		Catalog:  admin.NewCatalog(formRepo),
		Saved:    tui.NewSavedForms(store, logger),
		Log:      logger,
	}

	p := tea.NewProgram(
		tui.New(ctx, cfg, deps, startLocation(os.Args[1:]), loc),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// signatureProvider picks the e-signature backend. Only the simulator ships;
// a non-simulated config falls back to it with a warning rather than failing
// startup.
func signatureProvider(cfg config.ESignConfig, logger *zap.Logger) esign.Provider {
	if !cfg.Simulate {
		logger.Warn("live e-signature backend not configured, using simulator",
			zap.String("base_url", cfg.BaseURL))
	}
	return esign.NewSimulator(cfg.FailWith)
}

// startLocation reads an optional deep-link argument, the command-line
// analogue of opening the app at a fragment like "#admin".
func startLocation(args []string) string {
	for _, arg := range args {
		switch arg {
		case "#admin", "admin":
			return "#admin"
		}
	}
	return ""
}
