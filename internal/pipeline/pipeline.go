// Package pipeline composes the ETL's main dependencies and runs
// the per-dataset stages.
//
// Runner owns the lifecycle of:
//   - configuration and logger
//   - source and target database pools
//   - the stores API client, PDF extractor and S3 downloader
//   - the optional Redis store cache
//
// Each dataset runs extract -> clean -> validate -> load; RunAll
// orders the datasets so dimension tables land before the orders
// fact table that references them.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/cache"
	"github.com/datacentral/retail-etl/internal/config"
	"github.com/datacentral/retail-etl/internal/database"
	"github.com/datacentral/retail-etl/internal/extract"
	"github.com/datacentral/retail-etl/internal/validation"
)

// Dataset names accepted by Run, in load order.
var datasetOrder = []string{"users", "cards", "stores", "products", "date_events", "orders"}

// Runner is the application container that holds shared resources.
type Runner struct {
	Config *config.Config
	Logger *zerolog.Logger

	// Source is the legacy database the users and orders extracts
	// read from; Target is the centralised database being built.
	Source *database.Database
	Target *database.Database

	stores *extract.StoresClient
	pdf    *extract.PDFExtractor
	s3     *extract.S3Downloader
	rds    *extract.SourceDB
	cache  *cache.Stores
	gate   *validation.Gate
}

// New constructs a Runner and initializes core dependencies.
//
// Both database pools are pinged before this returns, so a
// misconfigured credentials file fails here rather than mid-run.
// Redis being unreachable is logged and tolerated (the store cache
// is optional); everything else is fatal.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Runner, error) {
	sourceCreds, err := config.LoadCredentials(cfg.Database.CredsFile, cfg.Database.SourceKey)
	if err != nil {
		return nil, fmt.Errorf("loading source credentials: %w", err)
	}
	targetCreds, err := config.LoadCredentials(cfg.Database.CredsFile, cfg.Database.TargetKey)
	if err != nil {
		return nil, fmt.Errorf("loading target credentials: %w", err)
	}

	source, err := database.New(ctx, cfg, sourceCreds, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize source database: %w", err)
	}

	target, err := database.New(ctx, cfg, targetCreds, logger)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to initialize target database: %w", err)
	}

	s3Downloader, err := extract.NewS3Downloader(ctx, cfg.S3.Region, logger)
	if err != nil {
		source.Close()
		target.Close()
		return nil, fmt.Errorf("failed to initialize S3 downloader: %w", err)
	}

	var storeCache *cache.Stores
	if cfg.Redis != nil {
		storeCache, err = cache.NewStores(ctx, cfg.Redis, logger)
		if err != nil {
			source.Close()
			target.Close()
			return nil, err
		}
	}

	return &Runner{
		Config: cfg,
		Logger: logger,
		Source: source,
		Target: target,
		stores: extract.NewStoresClient(cfg.API, logger),
		pdf:    extract.NewPDFExtractor(logger),
		s3:     s3Downloader,
		rds:    extract.NewSourceDB(source, logger),
		cache:  storeCache,
		gate:   validation.NewGate(),
	}, nil
}

// Run executes the requested datasets (all of them when the list is
// empty) in canonical order, so orders always loads after the
// dimensions it references.
func (r *Runner) Run(ctx context.Context, datasets []string) error {
	requested := make(map[string]bool, len(datasets))
	for _, name := range datasets {
		if !validDataset(name) {
			return fmt.Errorf("unknown dataset %q (valid: %v)", name, datasetOrder)
		}
		requested[name] = true
	}

	for _, name := range datasetOrder {
		if len(requested) > 0 && !requested[name] {
			continue
		}
		if err := r.runDataset(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) runDataset(ctx context.Context, name string) error {
	r.Logger.Info().Str("dataset", name).Msg("starting dataset")

	var err error
	switch name {
	case "users":
		err = r.RunUsers(ctx)
	case "cards":
		err = r.RunCards(ctx)
	case "stores":
		err = r.RunStores(ctx)
	case "products":
		err = r.RunProducts(ctx)
	case "date_events":
		err = r.RunDateEvents(ctx)
	case "orders":
		err = r.RunOrders(ctx)
	}
	if err != nil {
		r.Logger.Error().Err(err).Str("dataset", name).Msg("dataset failed")
		return err
	}

	r.Logger.Info().Str("dataset", name).Msg("dataset complete")
	return nil
}

func validDataset(name string) bool {
	for _, d := range datasetOrder {
		if d == name {
			return true
		}
	}
	return false
}

// Close releases every connection the Runner holds.
func (r *Runner) Close() {
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.Logger.Warn().Err(err).Msg("failed to close store cache")
		}
	}
	r.Source.Close()
	r.Target.Close()
}
