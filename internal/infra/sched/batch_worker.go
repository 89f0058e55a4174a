package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"talkbill/internal/usecase"
)

// BatchWorker runs the batch on a fixed interval. One batch at a time: the
// ticker only fires again after the previous cycle returns.
type BatchWorker struct {
	interval time.Duration
	batch    *usecase.BatchRunner
	log      *zerolog.Logger
}

func NewBatchWorker(interval time.Duration, batch *usecase.BatchRunner, logger *zerolog.Logger) *BatchWorker {
	l := logger.With().Str("component", "BatchWorker").Logger()
	return &BatchWorker{interval: interval, batch: batch, log: &l}
}

func (w *BatchWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting batch worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping batch worker")
			return ctx.Err()
		case <-ticker.C:
			report, err := w.batch.RunBatch(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("batch cycle failed")
				continue
			}
			if report.JobsProcessed > 0 || report.JobsFailed > 0 {
				w.log.Info().
					Str("run_id", report.RunID).
					Int("processed", report.JobsProcessed).
					Int("failed", report.JobsFailed).
					Msg("batch cycle finished")
			}
		}
	}
}
