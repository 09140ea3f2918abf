package ports

import (
	"context"
	"errors"
	"fmt"
	"os"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures one run of the pipeline.
type Options struct {
	UNLocodePath   string
	UNLocodeLatin1 bool
	GeoNamesPath   string
	GeoNamesFormat string
	BatchSize      int
	OutDir         string // empty skips writing batch files
}

// Report describes a finished run.
type Report struct {
	UNLocode   ParseStats
	GeoNames   ParseStats
	Clean      CleanStats
	Statements []Statement
	Files      []string
}

// Build parses, cleans and renders the inputs. The two sources are read
// concurrently and a failure in one cancels the other.
func Build(ctx context.Context, opts Options) (*Report, error) {
	if opts.UNLocodePath == "" && opts.GeoNamesPath == "" {
		return nil, errors.New("at least one of the UN/LOCODE or GeoNames inputs is required")
	}

	var (
		report             Report
		unlocode, geonames []models.Port
	)

	g, gctx := errgroup.WithContext(ctx)
	if opts.UNLocodePath != "" {
		g.Go(func() error {
			f, err := os.Open(opts.UNLocodePath)
			if err != nil {
				return fmt.Errorf("open unlocode: %w", err)
			}
			defer f.Close()
			unlocode, report.UNLocode, err = ParseUNLocode(gctx, f, UNLocodeOptions{Latin1: opts.UNLocodeLatin1})
			return err
		})
	}
	if opts.GeoNamesPath != "" {
		g.Go(func() error {
			f, err := os.Open(opts.GeoNamesPath)
			if err != nil {
				return fmt.Errorf("open geonames: %w", err)
			}
			defer f.Close()
			geonames, report.GeoNames, err = ParseGeoNames(gctx, f, opts.GeoNamesFormat)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	configslog.Log.Info("Port sources parsed",
		zap.Int("unlocode_kept", report.UNLocode.Kept),
		zap.Int("unlocode_skipped", report.UNLocode.Skipped),
		zap.Int("geonames_kept", report.GeoNames.Kept),
		zap.Int("geonames_skipped", report.GeoNames.Skipped),
	)

	rows, cleanStats := Clean(unlocode, geonames)
	report.Clean = cleanStats
	configslog.Log.Info("Port rows cleaned",
		zap.Int("input", cleanStats.Input),
		zap.Int("output", cleanStats.Output),
		zap.Int("dropped", cleanStats.Dropped),
		zap.Int("duplicates", cleanStats.Duplicates),
		zap.Int("enriched", cleanStats.Enriched),
		zap.Int("bad_coords", cleanStats.BadCoords),
	)

	report.Statements = RenderBatches(rows, opts.BatchSize)

	if opts.OutDir != "" {
		files, err := WriteBatchFiles(opts.OutDir, report.Statements)
		report.Files = files
		if err != nil {
			return &report, err
		}
		configslog.SLog.Infof("%d batch files written to %s", len(files), opts.OutDir)
	}
	return &report, nil
}
