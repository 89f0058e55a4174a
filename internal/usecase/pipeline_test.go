package usecase

import (
	"context"
	"errors"
	"testing"

	"talkbill/internal/domain/model"
	"talkbill/internal/domain/ports/adapter"
)

func newOrchestrator(repo *memJobRepo, fake *fakeInference) *PipelineOrchestrator {
	inv := NewInvoker(fake, 0, 0, testLogger())
	return NewPipelineOrchestrator(
		repo,
		NewIntentClassifier(inv, testLogger()),
		NewExtractionMergeEngine(inv, testLogger()),
		NewCompletionValidator(inv, testLogger()),
		NewConversationRouter(inv, testLogger()),
		5,
		testLogger(),
	)
}

func queuedJob(id, session, transcription string) *model.Job {
	return &model.Job{
		ID:            id,
		SessionID:     session,
		RefID:         "ref-" + id,
		Transcription: transcription,
		Status:        model.JobStatusQueued,
	}
}

func TestRunCompleteExpenseTurn(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"expense"}`)
	fake.script(adapter.PromptExpenseExtraction,
		`{"expense_category":null,"category_explicit":false,"items":[{"item_name":"coffee","item_amount":100,"item_qty":1}],"payment_type":null}`)
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j1", "s1", "one coffee for 100"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != model.ResultComplete {
		t.Fatalf("result status = %q, want COMPLETE", res.Status)
	}
	if res.Invoice.Category != "food" || res.Invoice.PaymentMethod != "cash" {
		t.Fatalf("invoice = %+v", res.Invoice)
	}

	writes := repo.writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want exactly 1", len(writes))
	}
	w := writes[0].result
	if w.Status != model.JobStatusInvoiceReady {
		t.Fatalf("persisted status = %q, want INVOICE_READY", w.Status)
	}
	if w.Intent != model.IntentExpense || w.ConversationStatus != model.StatusComplete {
		t.Fatalf("persisted result = %+v", w)
	}
	if w.Invoice == nil || len(w.Invoice.Items) != 1 {
		t.Fatalf("persisted invoice = %+v", w.Invoice)
	}
	// A complete draft never needs the phrasing call.
	if fake.callCount(adapter.PromptMissingFields) != 0 {
		t.Fatal("unexpected missing-fields call")
	}
}

func TestRunIncompleteExpenseTurnContinues(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"expense"}`)
	fake.script(adapter.PromptExpenseExtraction,
		`{"expense_category":null,"category_explicit":false,"items":[{"item_name":"petrol","item_amount":null,"item_qty":1}],"payment_type":null}`)
	fake.script(adapter.PromptMissingFields, `{"question":"How much was the petrol?"}`)
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j1", "s1", "petrol"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != model.ResultContinue {
		t.Fatalf("result status = %q, want CONTINUE", res.Status)
	}
	if res.Question != "How much was the petrol?" {
		t.Fatalf("question = %q", res.Question)
	}
	writes := repo.writes()
	if len(writes) != 1 || writes[0].result.Status != model.JobStatusAwaitingInput {
		t.Fatalf("writes = %+v, want one T2I_COMPLETED", writes)
	}
}

func TestRunExpenseTurnBuildsOnPriorInvoice(t *testing.T) {
	repo := newMemJobRepo()
	prior := model.NewInvoiceDraft()
	prior.Items = []model.LineItem{{Name: strPtr("milk"), Amount: f64Ptr(60), Qty: intPtr(1)}}
	prior.Category = "food"
	repo.invoices["s1"] = &prior

	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"expense"}`)
	fake.script(adapter.PromptExpenseExtraction,
		`{"expense_category":null,"category_explicit":false,"items":[{"item_name":"bread","item_amount":40,"item_qty":1}],"payment_type":null}`)
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j2", "s1", "also bread for 40"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Invoice.Items) != 2 {
		t.Fatalf("items = %d, want prior + new", len(res.Invoice.Items))
	}
}

func TestRunOtherIntentRoutes(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()
	fake.script(adapter.PromptIntentClassification, `{"intent":"other"}`)
	fake.script(adapter.PromptGenericQuestion, `{"question":"I track expenses. What did you spend?","status":"continue"}`)
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j1", "s1", "tell me a joke"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != model.ResultContinue {
		t.Fatalf("result status = %q, want CONTINUE", res.Status)
	}
	writes := repo.writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	w := writes[0].result
	if w.Intent != model.IntentOther || w.Status != model.JobStatusAwaitingInput {
		t.Fatalf("persisted result = %+v", w)
	}
	if w.Invoice == nil {
		t.Fatal("non-expense turn still persists the session draft")
	}
	if fake.callCount(adapter.PromptExpenseExtraction) != 0 {
		t.Fatal("other-intent turn must not invoke extraction")
	}
}

func TestRunEmptyTranscriptionSkipsClassifier(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j1", "s1", "   "))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != model.ResultContinue {
		t.Fatalf("result status = %q, want CONTINUE", res.Status)
	}
	if fake.callCount(adapter.PromptIntentClassification) != 0 {
		t.Fatal("empty transcription must not invoke the classifier")
	}
}

func TestRunFailurePersistsFailedState(t *testing.T) {
	repo := newMemJobRepo()
	fake := newFakeInference()
	fake.fail(adapter.PromptIntentClassification, errors.New("provider down"))
	orch := newOrchestrator(repo, fake)

	res, err := orch.Run(context.Background(), queuedJob("j1", "s1", "one coffee for 100"))
	if err == nil {
		t.Fatal("expected error to re-raise")
	}
	if res.Status != model.ResultFailed {
		t.Fatalf("result status = %q, want FAILED", res.Status)
	}

	writes := repo.writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want exactly 1", len(writes))
	}
	w := writes[0].result
	if w.Status != model.JobStatusFailed {
		t.Fatalf("persisted status = %q, want FAILED", w.Status)
	}
	if w.ErrorReason == "" {
		t.Fatal("error reason missing")
	}
	if w.Invoice != nil {
		t.Fatal("failure write must not carry an invoice")
	}
	if w.UpdatedAt.IsZero() {
		t.Fatal("updated_at missing on failure write")
	}
}
