package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"talkbill/internal/domain"
	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

// FetchPendingJobs selects the oldest queued jobs. A single scheduler owns
// the queue, so no row locking is taken; jobs leave the queued state only
// through WriteJobResult.
func (r *jobRepo) FetchPendingJobs(ctx context.Context, limit int) ([]*model.Job, error) {
	const q = `
SELECT id, session_id, ref_id, transcription, status, created_at, updated_at
FROM talkbill_jobs
WHERE status = $1
ORDER BY created_at
LIMIT $2;`

	rows, err := r.pool.Query(ctx, q, string(model.JobStatusQueued), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch pending jobs: %v", domain.ErrRepository, err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		var j model.Job
		var status string
		if err := rows.Scan(&j.ID, &j.SessionID, &j.RefID, &j.Transcription, &status, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan pending job: %v", domain.ErrRepository, err)
		}
		j.Status = model.JobStatus(status)
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate pending jobs: %v", domain.ErrRepository, err)
	}
	return jobs, nil
}

// FetchRecentTurns returns the last limit processed exchanges for the
// session, oldest first. Queued and failed rows carry no model question
// and are excluded from the window.
func (r *jobRepo) FetchRecentTurns(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	const q = `
SELECT transcription, COALESCE(model_question, ''), COALESCE(intent, '')
FROM talkbill_jobs
WHERE session_id = $1 AND status IN ($2, $3)
ORDER BY updated_at DESC
LIMIT $4;`

	rows, err := r.pool.Query(ctx, q, sessionID,
		string(model.JobStatusAwaitingInput), string(model.JobStatusInvoiceReady), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch recent turns: %v", domain.ErrRepository, err)
	}
	defer rows.Close()

	var turns []model.ConversationTurn
	for rows.Next() {
		var t model.ConversationTurn
		var intent string
		if err := rows.Scan(&t.User, &t.Model, &intent); err != nil {
			return nil, fmt.Errorf("%w: scan turn: %v", domain.ErrRepository, err)
		}
		t.Intent = model.Intent(intent)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate turns: %v", domain.ErrRepository, err)
	}

	// Query returns newest first; callers want conversational order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (r *jobRepo) FetchLatestInvoice(ctx context.Context, sessionID string) (*model.InvoiceDraft, error) {
	const q = `
SELECT invoice
FROM talkbill_jobs
WHERE session_id = $1 AND invoice IS NOT NULL
ORDER BY updated_at DESC
LIMIT 1;`

	var raw []byte
	err := r.pool.QueryRow(ctx, q, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch latest invoice: %v", domain.ErrRepository, err)
	}

	var inv model.InvoiceDraft
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("%w: decode invoice: %v", domain.ErrRepository, err)
	}
	return &inv, nil
}

func (r *jobRepo) WriteJobResult(ctx context.Context, job *model.Job, result model.JobResult) error {
	if result.UpdatedAt.IsZero() {
		result.UpdatedAt = time.Now().UTC()
	}

	var invoice []byte
	if result.Invoice != nil {
		b, err := json.Marshal(result.Invoice)
		if err != nil {
			return fmt.Errorf("%w: encode invoice: %v", domain.ErrRepository, err)
		}
		invoice = b
	}

	const q = `
UPDATE talkbill_jobs SET
  status = $2,
  invoice = $3,
  model_question = $4,
  conversation_status = $5,
  intent = $6,
  error_reason = $7,
  updated_at = $8
WHERE id = $1;`

	tag, err := r.pool.Exec(ctx, q,
		job.ID,
		string(result.Status),
		invoice,
		nullIfEmpty(result.ModelQuestion),
		nullIfEmpty(string(result.ConversationStatus)),
		nullIfEmpty(string(result.Intent)),
		nullIfEmpty(result.ErrorReason),
		result.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: write job result: %v", domain.ErrRepository, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, job.ID)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
