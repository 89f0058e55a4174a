package postgres

import (
	"context"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/repository"
	"talkbill/internal/infra/metrics"
	red "talkbill/internal/infra/redis"
)

var _ repository.JobRepository = (*jobRepoCacheDecorator)(nil)

// jobRepoCacheDecorator fronts the turn-window reads with the Redis cache.
// Every write-back invalidates the session's window, so a stale cache
// entry can never survive a processed turn.
type jobRepoCacheDecorator struct {
	inner repository.JobRepository
	cache *red.TurnCache
}

func NewJobRepoCacheDecorator(inner repository.JobRepository, cache *red.TurnCache) repository.JobRepository {
	return &jobRepoCacheDecorator{inner: inner, cache: cache}
}

func (d *jobRepoCacheDecorator) FetchPendingJobs(ctx context.Context, limit int) ([]*model.Job, error) {
	return d.inner.FetchPendingJobs(ctx, limit)
}

func (d *jobRepoCacheDecorator) FetchRecentTurns(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	if turns, ok := d.cache.GetTurns(ctx, sessionID); ok && len(turns) <= limit {
		metrics.IncCacheRequest("turns", "hit")
		return turns, nil
	}
	metrics.IncCacheRequest("turns", "miss")

	turns, err := d.inner.FetchRecentTurns(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	_ = d.cache.StoreTurns(ctx, sessionID, turns)
	return turns, nil
}

func (d *jobRepoCacheDecorator) FetchLatestInvoice(ctx context.Context, sessionID string) (*model.InvoiceDraft, error) {
	// The latest invoice changes on every turn; caching it buys nothing.
	return d.inner.FetchLatestInvoice(ctx, sessionID)
}

func (d *jobRepoCacheDecorator) WriteJobResult(ctx context.Context, job *model.Job, result model.JobResult) error {
	_ = d.cache.Invalidate(ctx, job.SessionID)
	return d.inner.WriteJobResult(ctx, job, result)
}
