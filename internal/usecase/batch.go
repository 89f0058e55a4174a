package usecase

import (
	"context"
	"crypto/rand"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/repository"
	"talkbill/internal/infra/logging"
	"talkbill/internal/infra/metrics"
)

// BatchRunner drains the pending-job queue: fetch up to limit jobs, fan
// them out to independent orchestrator runs, aggregate the outcomes. A
// job's failure is already persisted by its orchestrator run, so the batch
// logs it and moves on rather than re-raising.
type BatchRunner struct {
	repo        repository.JobRepository
	orch        *PipelineOrchestrator
	limit       int
	concurrency int
	log         *zerolog.Logger
}

func NewBatchRunner(repo repository.JobRepository, orch *PipelineOrchestrator, limit, concurrency int, logger *zerolog.Logger) *BatchRunner {
	if limit <= 0 {
		limit = 50
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	l := logger.With().Str("component", "BatchRunner").Logger()
	return &BatchRunner{repo: repo, orch: orch, limit: limit, concurrency: concurrency, log: &l}
}

// RunBatch executes one batch cycle. The returned error covers only the
// fetch; per-job failures are reflected in the report counts.
func (b *BatchRunner) RunBatch(ctx context.Context) (model.BatchReport, error) {
	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.With(ctx, b.log)

	jobs, err := b.repo.FetchPendingJobs(ctx, b.limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch pending jobs")
		return model.BatchReport{RunID: runID}, err
	}
	metrics.SetBatchJobsFetched(len(jobs))
	if len(jobs) == 0 {
		return model.BatchReport{RunID: runID}, nil
	}
	log.Info().Int("jobs", len(jobs)).Msg("batch run started")

	var processed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			jctx := logging.WithSessionID(logging.WithJobID(gctx, job.ID), job.SessionID)
			if _, err := b.orch.Run(jctx, job); err != nil {
				// Already persisted as FAILED by the orchestrator; one
				// job's failure never cancels the rest of the batch.
				logging.With(jctx, b.log).Warn().Err(err).Msg("job failed in batch run")
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report := model.BatchReport{
		RunID:         runID,
		JobsProcessed: int(processed.Load()),
		JobsFailed:    int(failed.Load()),
	}
	log.Info().
		Int("processed", report.JobsProcessed).
		Int("failed", report.JobsFailed).
		Msg("batch run finished")
	return report, nil
}
