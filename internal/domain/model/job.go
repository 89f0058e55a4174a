package model

import "time"

// Intent is the classified purpose of one user turn.
type Intent string

const (
	IntentExpense Intent = "expense"
	IntentOther   Intent = "other"
)

// ParseIntent maps a classifier string onto the closed enum.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentExpense:
		return IntentExpense, true
	case IntentOther:
		return IntentOther, true
	}
	return "", false
}

// ConversationStatus is the per-turn conversational outcome.
type ConversationStatus string

const (
	StatusContinue ConversationStatus = "continue"
	StatusComplete ConversationStatus = "complete"
	StatusError    ConversationStatus = "error"
)

// ParseConversationStatus maps a phrasing-call string onto the closed enum.
func ParseConversationStatus(s string) (ConversationStatus, bool) {
	switch ConversationStatus(s) {
	case StatusContinue, StatusComplete, StatusError:
		return ConversationStatus(s), true
	}
	return "", false
}

// JobStatus is the persisted lifecycle state of a transcription job.
type JobStatus string

const (
	JobStatusQueued        JobStatus = "T2I_QUEUED"
	JobStatusAwaitingInput JobStatus = "T2I_COMPLETED"
	JobStatusInvoiceReady  JobStatus = "INVOICE_READY"
	JobStatusFailed        JobStatus = "FAILED"
)

// ConversationTurn is one exchange: the user's utterance and the question
// the system asked back, plus the intent the turn was classified as.
type ConversationTurn struct {
	User   string `json:"user"`
	Model  string `json:"model"`
	Intent Intent `json:"intent,omitempty"`
}

// Job is one transcribed user turn awaiting pipeline processing. Jobs are
// owned by the repository; the core reads and updates them, never creates
// or deletes them.
type Job struct {
	ID            string
	SessionID     string
	RefID         string
	Transcription string
	Status        JobStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// JobResult is the single write-back performed at the end of a pipeline
// run. Exactly one of the two shapes is populated: the turn outcome
// (invoice, question, conversation status, intent) or an error reason.
type JobResult struct {
	Status             JobStatus
	Invoice            *InvoiceDraft
	ModelQuestion      string
	ConversationStatus ConversationStatus
	Intent             Intent
	ErrorReason        string
	UpdatedAt          time.Time
}

// ResultStatus is the terminal outcome of one orchestrator run.
type ResultStatus string

const (
	ResultContinue ResultStatus = "CONTINUE"
	ResultComplete ResultStatus = "COMPLETE"
	ResultFailed   ResultStatus = "FAILED"
)

// PipelineResult is produced once per job, terminal.
type PipelineResult struct {
	Question string
	Invoice  InvoiceDraft
	Status   ResultStatus
}

// TurnOutcome is the (question, status) pair produced by either the
// completion validator or the conversation router.
type TurnOutcome struct {
	Question string             `json:"question"`
	Status   ConversationStatus `json:"status"`
}

// BatchReport aggregates one batch run.
type BatchReport struct {
	RunID         string `json:"run_id"`
	JobsProcessed int    `json:"jobs_processed"`
	JobsFailed    int    `json:"jobs_failed"`
}
