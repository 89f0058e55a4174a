package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/domain/ports/repository"
)

var (
	_ adapter.InferenceClient  = (*fakeInference)(nil)
	_ repository.JobRepository = (*memJobRepo)(nil)
)

// fakeInference replays scripted JSON per prompt kind, in order; the last
// response repeats once the script runs out.
type fakeInference struct {
	mu        sync.Mutex
	responses map[adapter.PromptKind][]string
	errs      map[adapter.PromptKind]error
	calls     map[adapter.PromptKind]int
}

func newFakeInference() *fakeInference {
	return &fakeInference{
		responses: map[adapter.PromptKind][]string{},
		errs:      map[adapter.PromptKind]error{},
		calls:     map[adapter.PromptKind]int{},
	}
}

func (f *fakeInference) script(kind adapter.PromptKind, responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[kind] = responses
}

func (f *fakeInference) fail(kind adapter.PromptKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[kind] = err
}

func (f *fakeInference) callCount(kind adapter.PromptKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

func (f *fakeInference) Infer(_ context.Context, req adapter.InferenceRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.Kind]++
	if err := f.errs[req.Kind]; err != nil {
		return nil, err
	}
	rs := f.responses[req.Kind]
	if len(rs) == 0 {
		return nil, fmt.Errorf("no scripted response for %s", req.Kind)
	}
	idx := f.calls[req.Kind] - 1
	if idx >= len(rs) {
		idx = len(rs) - 1
	}
	return json.RawMessage(rs[idx]), nil
}

type writtenResult struct {
	job    *model.Job
	result model.JobResult
}

// memJobRepo is an in-memory JobRepository recording every write-back.
type memJobRepo struct {
	mu       sync.Mutex
	pending  []*model.Job
	turns    map[string][]model.ConversationTurn
	invoices map[string]*model.InvoiceDraft
	written  []writtenResult
	fetchErr error
	writeErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{
		turns:    map[string][]model.ConversationTurn{},
		invoices: map[string]*model.InvoiceDraft{},
	}
}

func (r *memJobRepo) FetchPendingJobs(_ context.Context, limit int) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *memJobRepo) FetchRecentTurns(_ context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	turns := r.turns[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (r *memJobRepo) FetchLatestInvoice(_ context.Context, sessionID string) (*model.InvoiceDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.invoices[sessionID], nil
}

func (r *memJobRepo) WriteJobResult(_ context.Context, job *model.Job, result model.JobResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.written = append(r.written, writtenResult{job: job, result: result})
	return nil
}

func (r *memJobRepo) writes() []writtenResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]writtenResult, len(r.written))
	copy(out, r.written)
	return out
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int         { return &v }
