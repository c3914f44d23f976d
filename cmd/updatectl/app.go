package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/config"
	"github.com/northlane-software/updatewing/internal/filecache"
	"github.com/northlane-software/updatewing/internal/logs"
	"github.com/northlane-software/updatewing/internal/metrics"
	"github.com/northlane-software/updatewing/internal/updater"
)

// app bundles the components a subcommand needs: configuration, a logger,
// the file cache backing the validation ledger, the update machine, and an
// initial State built from the configured current version and channel.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	cache   *filecache.Cache
	machine *updater.Machine
	metrics *metrics.Manager
	ledger  *bbolt.DB
	state   updater.State
}

// bootstrap loads configuration, sets up logging, and wires the update
// machine for a one-shot command (runCommand=false defaults its log level
// to warn; the long-running "run" subcommand passes true for info).
func bootstrap(runCommand bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logs.SetupCommandLogger(runCommand, logLevel, logToFile, logDir)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	currentVersion, err := cfg.Version()
	if err != nil {
		return nil, err
	}

	ledgerPath := cfg.LedgerPath
	if ledgerPath == "" {
		ledgerPath = filepath.Join(cfg.UpdatesPath, "ledger.db")
	}
	db, err := bbolt.Open(ledgerPath, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open validation ledger: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	cache, err := filecache.New(cfg.UpdatesPath, httpClient, logger, db)
	if err != nil {
		return nil, fmt.Errorf("build file cache: %w", err)
	}

	machine, err := updater.New(updater.Options{
		HTTPClient:          httpClient,
		FeedURIProvider:     updater.StaticFeedSource(cfg.FeedURL),
		Cache:               cache,
		CurrentVersion:      currentVersion,
		EarlyAccessCategory: cfg.EarlyAccessCategory,
		Logger:              logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build update machine: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		cache:   cache,
		machine: machine,
		metrics: metrics.New(),
		ledger:  db,
		state:   updater.Initial(currentVersion, cfg.EarlyAccess),
	}, nil
}

func (a *app) Close() error {
	return a.ledger.Close()
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}
