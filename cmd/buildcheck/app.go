package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/braunma/buildcheck/internal/config"
	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/client"
	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/loader"
	"github.com/braunma/buildcheck/pkg/metrics"
	"github.com/braunma/buildcheck/pkg/store"
	"github.com/braunma/buildcheck/pkg/utils"
)

// app wires the configured sources for one command invocation
type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	recorder *metrics.Recorder

	catalog   *catalog.Catalog
	cached    *catalog.CachedLookup
	inventory *client.InventoryClient
	store     *store.Store
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:      cfg,
		logger:   utils.NewLogger(cfg.Verbose),
		recorder: metrics.NewRecorder(),
	}

	if cfg.Inventory.URL != "" {
		opts := []client.Option{client.WithHTTPClient(&http.Client{Timeout: cfg.Inventory.Timeout})}
		if cfg.Inventory.Insecure {
			opts = append(opts, client.WithInsecureTLS())
		}
		a.inventory = client.NewClient(cfg.Inventory.URL, cfg.Inventory.Token, a.logger, opts...)
		a.cached = catalog.NewCachedLookup(a.inventory, a.logger)
		a.logger.Debug("Using inventory at %s", cfg.Inventory.URL)
	}
	return a, nil
}

// specs returns the specification lookup: the remote inventory behind a cache,
// or the local catalog loaded from YAML
func (a *app) specs() (compat.SpecLookup, error) {
	if a.cached != nil {
		return a.cached, nil
	}
	if a.catalog != nil {
		return a.catalog, nil
	}

	cat, errs, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		a.logger.Warning("Skipping invalid definition: %v", e)
	}
	a.catalog = cat
	return cat, nil
}

// loadCatalog reads every definition folder; rejected records are returned separately
func (a *app) loadCatalog() (*catalog.Catalog, []error, error) {
	dir, err := resolveCatalogDir(a.cfg.CatalogDir, a.logger)
	if err != nil {
		return nil, nil, err
	}

	specs, err := loader.NewDataLoader(dir, a.logger).LoadSpecs()
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.NewCatalog(a.logger)
	added, errs := cat.AddAll(specs)
	a.logger.Debug("Loaded %d of %d definitions from %s", added, len(specs), dir)
	return cat, errs, nil
}

// openStore opens the SQLite configuration store once
func (a *app) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.NewStore(a.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

// snapshots returns the configuration source: a YAML file, the inventory, or the store
func (a *app) snapshots() (compat.SnapshotSource, error) {
	switch {
	case a.cfg.SnapshotFile != "":
		loaded, err := loader.NewDataLoader(filepath.Dir(a.cfg.SnapshotFile), a.logger).LoadSnapshotFile(a.cfg.SnapshotFile)
		if err != nil {
			return nil, err
		}
		return loader.NewSnapshotSet(loaded)
	case a.inventory != nil:
		return a.inventory, nil
	default:
		return a.openStore()
	}
}

// engine builds a compatibility engine over the given configuration source
func (a *app) engine(snapshots compat.SnapshotSource) (*compat.Engine, error) {
	specs, err := a.specs()
	if err != nil {
		return nil, err
	}
	return compat.NewEngine(specs, snapshots,
		compat.WithLogger(a.logger),
		compat.WithRecorder(a.recorder),
	), nil
}

// close releases the store and exports metrics
func (a *app) close() {
	if a.cached != nil {
		for _, t := range a.cached.Resources() {
			a.logger.Debug("Spec cache: %d %s record(s)", a.cached.Size(t), t)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warning("Failed to close store: %v", err)
		}
	}
	if a.cfg.MetricsFile != "" {
		if err := a.recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.logger.Warning("Failed to write metrics: %v", err)
		}
	}
}

// resolveCatalogDir uses the configured directory, falling back to the bundled
// example definitions when it does not exist
func resolveCatalogDir(dir string, logger *utils.Logger) (string, error) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		logger.Debug("Using catalog directory: %s", dir)
		return dir, nil
	}

	examplePath := filepath.Join("example", "definitions")
	if info, err := os.Stat(examplePath); err == nil && info.IsDir() {
		logger.Warning("%s not found, falling back to '%s'", dir, examplePath)
		return examplePath, nil
	}

	return "", fmt.Errorf("no catalog directory found: checked '%s' and '%s'", dir, examplePath)
}
