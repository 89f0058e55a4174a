package usecase

import (
	"context"
	"errors"
	"testing"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
)

func TestRunBatchProcessesAllJobs(t *testing.T) {
	repo := newMemJobRepo()
	for _, id := range []string{"j1", "j2", "j3"} {
		repo.pending = append(repo.pending, queuedJob(id, "s-"+id, "tell me a joke"))
	}
	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"other"}`)
	fake.script(adapter.PromptGenericQuestion, `{"question":"I track expenses. What did you spend?","status":"continue"}`)

	batch := NewBatchRunner(repo, newOrchestrator(repo, fake), 50, 4, testLogger())
	report, err := batch.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if report.JobsProcessed != 3 || report.JobsFailed != 0 {
		t.Fatalf("report = %+v, want 3 processed / 0 failed", report)
	}
	if report.RunID == "" {
		t.Fatal("run id missing")
	}
	if got := len(repo.writes()); got != 3 {
		t.Fatalf("writes = %d, want 3", got)
	}
}

func TestRunBatchFailuresDoNotAbortTheRun(t *testing.T) {
	repo := newMemJobRepo()
	for _, id := range []string{"j1", "j2"} {
		repo.pending = append(repo.pending, queuedJob(id, "s-"+id, "one coffee for 100"))
	}
	fake := newFakeInference()
	fake.fail(adapter.PromptIntentClassification, errors.New("provider down"))

	batch := NewBatchRunner(repo, newOrchestrator(repo, fake), 50, 4, testLogger())
	report, err := batch.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("per-job failures must not fail the batch: %v", err)
	}
	if report.JobsProcessed != 0 || report.JobsFailed != 2 {
		t.Fatalf("report = %+v, want 0 processed / 2 failed", report)
	}
	// Both failures were persisted individually.
	writes := repo.writes()
	if len(writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(writes))
	}
	for _, w := range writes {
		if w.result.Status != model.JobStatusFailed {
			t.Fatalf("persisted status = %q, want FAILED", w.result.Status)
		}
	}
}

func TestRunBatchRespectsFetchLimit(t *testing.T) {
	repo := newMemJobRepo()
	for _, id := range []string{"j1", "j2", "j3"} {
		repo.pending = append(repo.pending, queuedJob(id, "s-"+id, "done"))
	}
	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"other"}`)

	batch := NewBatchRunner(repo, newOrchestrator(repo, fake), 2, 4, testLogger())
	report, err := batch.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if report.JobsProcessed != 2 {
		t.Fatalf("processed = %d, want limit 2", report.JobsProcessed)
	}
}

func TestRunBatchFetchErrorPropagates(t *testing.T) {
	repo := newMemJobRepo()
	repo.fetchErr = errors.New("db down")
	fake := newFakeInference()

	batch := NewBatchRunner(repo, newOrchestrator(repo, fake), 50, 4, testLogger())
	if _, err := batch.RunBatch(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

func TestRunBatchEmptyQueue(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()

	batch := NewBatchRunner(repo, newOrchestrator(repo, fake), 50, 4, testLogger())
	report, err := batch.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if report.JobsProcessed != 0 || report.JobsFailed != 0 {
		t.Fatalf("report = %+v, want empty", report)
	}
}
