// Package container wires the dependencies of a report run: logger, sheet reader,
// reference loader, workbook writer and the campaign registry.
package container

import (
	"context"
	"fmt"
	"io"

	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/config"
	"spmadrid/collections-reports/internal/export"
	"spmadrid/collections-reports/internal/factory"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/reference"
)

// Container holds all application dependencies.
//
// Container is immutable after creation; every field is private and exposed through a
// getter.
type Container struct {
	logger logging.Logger
	config *config.Config
	reader *ingest.Reader
	loader *reference.Loader
	writer *export.Writer

	closers []io.Closer
}

// NewContainer creates and wires all application dependencies. Account stores are
// opened here and released by Close.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(ctx, cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	c := &Container{
		logger: logger,
		config: cfg,
		reader: ingest.NewReader(logger),
		writer: export.NewWriter(cfg.Output.Templates, logger),
	}

	source, err := c.referenceSource(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.loader = reference.NewLoader(source, reference.LoaderOptions{
		AccountChunk: cfg.Reference.ChunkSize,
		ChCodeChunk:  cfg.Reference.ChCodeChunkSize,
		Parallel:     cfg.Reference.Parallel,
	}, logger)

	logger.Debug("Container initialized",
		logging.F(logging.FieldSource, cfg.Reference.Source),
		logging.F("accounts_driver", cfg.Reference.Accounts.Driver))
	return c, nil
}

func (c *Container) referenceSource(ctx context.Context) (reference.Source, error) {
	ref := c.config.Reference

	var catalog reference.Catalog
	var accounts reference.AccountStore
	switch ref.Source {
	case config.SourceYAML:
		y := reference.NewYAMLSource(ref.Path)
		catalog, accounts = y, y
	case config.SourceWorkbook:
		catalog = reference.NewWorkbookSource(ref.Path, c.config.Rosters(), c.logger)
	default:
		catalog = reference.EmptyCatalog{}
	}

	switch ref.Accounts.Driver {
	case config.DriverSQLite:
		store, err := reference.NewSQLiteStore(ref.Accounts.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite account store: %w", err)
		}
		c.closers = append(c.closers, store)
		accounts = store
	case config.DriverPostgres:
		store, err := reference.NewPostgresStore(ctx, ref.Accounts.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres account store: %w", err)
		}
		c.closers = append(c.closers, store)
		accounts = store
	}
	return reference.Combine(catalog, accounts), nil
}

// GetCampaign builds the campaign of type t from the container's configuration.
func (c *Container) GetCampaign(t factory.CampaignType, o factory.Overrides) (campaign.Campaign, error) {
	return factory.GetCampaign(t, c.config, o, c.logger)
}

// GetLogger returns the container's logger.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetReader returns the sheet reader.
func (c *Container) GetReader() *ingest.Reader { return c.reader }

// GetLoader returns the reference loader.
func (c *Container) GetLoader() *reference.Loader { return c.loader }

// GetWriter returns the workbook writer.
func (c *Container) GetWriter() *export.Writer { return c.writer }

// Close releases the account stores. The first error is returned after every store
// has been closed.
func (c *Container) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
