package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/repository"
	"talkbill/internal/infra/metrics"
)

// PipelineOrchestrator runs the per-job state machine: load context,
// classify, extract-and-validate or route, persist. Exactly one repository
// write happens per run, on the success path or the failure path, so
// re-running a job before write-back is safe.
type PipelineOrchestrator struct {
	repo         repository.JobRepository
	intent       *IntentClassifier
	extract      *ExtractionMergeEngine
	validate     *CompletionValidator
	route        *ConversationRouter
	historyLimit int
	log          *zerolog.Logger
}

func NewPipelineOrchestrator(
	repo repository.JobRepository,
	intent *IntentClassifier,
	extract *ExtractionMergeEngine,
	validate *CompletionValidator,
	route *ConversationRouter,
	historyLimit int,
	logger *zerolog.Logger,
) *PipelineOrchestrator {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	l := logger.With().Str("component", "PipelineOrchestrator").Logger()
	return &PipelineOrchestrator{
		repo:         repo,
		intent:       intent,
		extract:      extract,
		validate:     validate,
		route:        route,
		historyLimit: historyLimit,
		log:          &l,
	}
}

// Run processes one job to a terminal result. On failure the job is
// persisted as FAILED with the reason and the error is re-raised so the
// batch layer can record it; the orchestrator never retries a job itself.
func (p *PipelineOrchestrator) Run(ctx context.Context, job *model.Job) (model.PipelineResult, error) {
	res, err := p.runTurn(ctx, job)
	if err != nil {
		p.log.Error().Err(err).Str("job_id", job.ID).Str("session_id", job.SessionID).
			Msg("pipeline run failed")
		metrics.IncJobProcessed(string(model.JobStatusFailed))
		failResult := model.JobResult{
			Status:      model.JobStatusFailed,
			ErrorReason: err.Error(),
			UpdatedAt:   time.Now().UTC(),
		}
		if werr := p.repo.WriteJobResult(ctx, job, failResult); werr != nil {
			p.log.Error().Err(werr).Str("job_id", job.ID).
				Msg("failed to persist failure state")
		}
		return model.PipelineResult{Status: model.ResultFailed}, err
	}
	return res, nil
}

func (p *PipelineOrchestrator) runTurn(ctx context.Context, job *model.Job) (model.PipelineResult, error) {
	// START: the two session reads are independent; both must land before
	// classification.
	var (
		history []model.ConversationTurn
		prior   *model.InvoiceDraft
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = p.repo.FetchRecentTurns(gctx, job.SessionID, p.historyLimit)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = p.repo.FetchLatestInvoice(gctx, job.SessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PipelineResult{}, err
	}

	intent, err := p.intent.Classify(ctx, job.Transcription, history)
	if err != nil {
		return model.PipelineResult{}, err
	}

	var (
		invoice model.InvoiceDraft
		outcome model.TurnOutcome
	)
	if intent == model.IntentExpense {
		invoice, err = p.extract.Merge(ctx, job.Transcription, prior, history)
		if err != nil {
			return model.PipelineResult{}, err
		}
		outcome, err = p.validate.Evaluate(ctx, invoice, job.Transcription, history)
		if err != nil {
			return model.PipelineResult{}, err
		}
	} else {
		// Non-expense turns still persist a draft so the session's latest
		// invoice remains well defined: the prior draft, or an empty one.
		invoice = model.NewInvoiceDraft()
		if prior != nil {
			invoice = prior.Clone()
		}
		outcome, err = p.route.Respond(ctx, job.Transcription, history)
		if err != nil {
			return model.PipelineResult{}, err
		}
	}

	jobStatus := model.JobStatusAwaitingInput
	resultStatus := model.ResultContinue
	if outcome.Status == model.StatusComplete {
		jobStatus = model.JobStatusInvoiceReady
		resultStatus = model.ResultComplete
	}

	result := model.JobResult{
		Status:             jobStatus,
		Invoice:            &invoice,
		ModelQuestion:      outcome.Question,
		ConversationStatus: outcome.Status,
		Intent:             intent,
		UpdatedAt:          time.Now().UTC(),
	}
	if err := p.repo.WriteJobResult(ctx, job, result); err != nil {
		return model.PipelineResult{}, err
	}

	metrics.IncJobProcessed(string(jobStatus))
	p.log.Info().
		Str("job_id", job.ID).
		Str("session_id", job.SessionID).
		Str("intent", string(intent)).
		Str("status", string(jobStatus)).
		Msg("pipeline run completed")

	return model.PipelineResult{
		Question: outcome.Question,
		Invoice:  invoice,
		Status:   resultStatus,
	}, nil
}
