package ports

import (
	"context"
	"fmt"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Execer is the subset of *pgxpool.Pool the pusher needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PushSummary is reported after every statement has been tried.
type PushSummary struct {
	Batches  int
	Failed   int
	Rows     int64
	Duration time.Duration
	Err      error // every batch failure, combined
}

// Pusher sends rendered batches one at a time. A failing batch is logged and
// the run moves on.
type Pusher struct {
	db      Execer
	limiter *rate.Limiter
	timeout time.Duration
}

// NewPusher throttles to perSecond statements (<= 0 means unthrottled).
func NewPusher(db Execer, perSecond float64, timeout time.Duration) *Pusher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Pusher{db: db, limiter: rate.NewLimiter(limit, 1), timeout: timeout}
}

// Push runs stmts in order and keeps going past failures. Cancelling ctx
// stops before the next statement.
func (p *Pusher) Push(ctx context.Context, stmts []Statement) PushSummary {
	start := time.Now()
	summary := PushSummary{Batches: len(stmts)}

	for i, st := range stmts {
		if err := p.limiter.Wait(ctx); err != nil {
			// Context cancelled: count the rest as failed.
			remaining := len(stmts) - i
			summary.Failed += remaining
			summary.Err = multierr.Append(summary.Err, fmt.Errorf("stopped before batch %d: %w", st.Index, err))
			metrics.PortsBatchesTotal.WithLabelValues("failed").Add(float64(remaining))
			break
		}

		rows, err := p.exec(ctx, st)
		if err != nil {
			summary.Failed++
			summary.Err = multierr.Append(summary.Err, fmt.Errorf("batch %d: %w", st.Index, err))
			metrics.PortsBatchesTotal.WithLabelValues("failed").Inc()
			configslog.Log.Error("Ports batch failed",
				zap.Int("batch", st.Index),
				zap.Int("rows", st.Rows),
				zap.Error(err),
			)
			continue
		}

		summary.Rows += rows
		metrics.PortsBatchesTotal.WithLabelValues("ok").Inc()
		metrics.PortsRowsTotal.Add(float64(rows))
		configslog.SLog.Debugf("Ports batch %d/%d written (%d rows)", st.Index, summary.Batches, rows)
	}

	summary.Duration = time.Since(start)
	configslog.Log.Info("Ports push finished",
		zap.Int("batches", summary.Batches),
		zap.Int("failed", summary.Failed),
		zap.Int64("rows", summary.Rows),
		zap.Duration("duration", summary.Duration),
	)
	return summary
}

func (p *Pusher) exec(ctx context.Context, st Statement) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	tag, err := p.db.Exec(ctx, st.SQL)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
