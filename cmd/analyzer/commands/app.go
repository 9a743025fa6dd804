package commands

import (
	"context"

	"github.com/wonny/stock-analyzer/internal/provider"
	"github.com/wonny/stock-analyzer/internal/store"
	"github.com/wonny/stock-analyzer/pkg/config"
	"github.com/wonny/stock-analyzer/pkg/database"
	"github.com/wonny/stock-analyzer/pkg/logger"
)

// app holds the shared wiring every command needs: config, logger,
// database pool, provider client, and repositories.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *database.DB
	provider *provider.Client

	snapshots *store.SnapshotRepository
	rule1     *store.Rule1Repository
}

// newApp loads config and connects to the database. Callers must Close.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if tickersFile != "" {
		cfg.Analyzer.TickersFile = tickersFile
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		db:        db,
		provider:  provider.NewClient(cfg, log),
		snapshots: store.NewSnapshotRepository(db.Pool),
		rule1:     store.NewRule1Repository(db.Pool),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

// tickers reads the configured ticker list.
func (a *app) tickers() ([]string, error) {
	return config.LoadTickers(a.cfg.Analyzer.TickersFile)
}
