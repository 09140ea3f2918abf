package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marinehub.app/configs/configsapp"
	"marinehub.app/configs/configsdatabase"
	"marinehub.app/configs/configslog"
	"marinehub.app/etl/ports"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	unlocodePath := flag.String("unlocode", "", "UN/LOCODE code list CSV")
	latin1 := flag.Bool("unlocode-latin1", false, "Decode the UN/LOCODE file as ISO-8859-1")
	geonamesPath := flag.String("geonames", "", "GeoNames extract")
	geonamesFormat := flag.String("geonames-format", ports.FormatTSV, "GeoNames extract format: tsv|sql")
	batch := flag.Int("batch", ports.DefaultBatchSize, "Rows per INSERT statement")
	outDir := flag.String("out", "", "Write ports_batch_NNNN.sql files to this directory")
	push := flag.Bool("push", false, "Execute the batches against the database")
	dsn := flag.String("dsn", "", "Postgres DSN (defaults to the DB_* environment)")
	perSecond := flag.Float64("rate", 2, "Batches per second when pushing (0 = unthrottled)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, ports.Options{
		UNLocodePath:   *unlocodePath,
		UNLocodeLatin1: *latin1,
		GeoNamesPath:   *geonamesPath,
		GeoNamesFormat: *geonamesFormat,
		BatchSize:      *batch,
		OutDir:         *outDir,
	}, *push, *dsn, *perSecond))
}

func run(ctx context.Context, opts ports.Options, push bool, dsn string, perSecond float64) int {
	defer configslog.SyncLogger()

	report, err := ports.Build(ctx, opts)
	if err != nil {
		configslog.Log.Error("Ports pipeline failed", zap.Error(err))
		return 1
	}
	configslog.SLog.Infof("%d port rows rendered into %d batches", report.Clean.Output, len(report.Statements))

	if !push {
		return 0
	}

	if dsn == "" {
		dsn = configsdatabase.DSN(configsapp.Load())
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		configslog.Log.Error("Database pool could not be created", zap.Error(err))
		return 1
	}
	defer pool.Close()

	summary := ports.NewPusher(pool, perSecond, time.Minute).Push(ctx, report.Statements)
	if summary.Failed > 0 {
		configslog.Log.Error("Some ports batches failed",
			zap.Int("failed", summary.Failed),
			zap.Int("batches", summary.Batches),
			zap.Error(summary.Err),
		)
		return 1
	}
	return 0
}
