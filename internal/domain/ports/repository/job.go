package repository

import (
	"context"

	"talkbill/internal/domain/model"
)

// JobRepository is the port over persisted transcription jobs. The store is
// shared and safe for concurrent independent reads/writes keyed by session;
// each running job owns its session's state exclusively for the duration of
// one pipeline run, so no cross-job locking is required.
type JobRepository interface {
	// FetchPendingJobs returns up to limit queued jobs, oldest first.
	FetchPendingJobs(ctx context.Context, limit int) ([]*model.Job, error)

	// FetchRecentTurns returns the last limit processed turns for a
	// session, oldest first.
	FetchRecentTurns(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error)

	// FetchLatestInvoice returns the most recently persisted invoice draft
	// for a session, or (nil, nil) when the session has none yet.
	FetchLatestInvoice(ctx context.Context, sessionID string) (*model.InvoiceDraft, error)

	// WriteJobResult records the terminal outcome of one pipeline run.
	// It is called exactly once per run, on the success or failure path.
	WriteJobResult(ctx context.Context, job *model.Job, result model.JobResult) error
}
