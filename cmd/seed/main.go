package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"talkbill/internal/config"
	"talkbill/internal/domain/model"
	pg "talkbill/internal/infra/db/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS talkbill_jobs (
  id                  TEXT PRIMARY KEY,
  session_id          TEXT NOT NULL,
  ref_id              TEXT NOT NULL,
  transcription       TEXT NOT NULL,
  status              TEXT NOT NULL,
  invoice             JSONB,
  model_question      TEXT,
  conversation_status TEXT,
  intent              TEXT,
  error_reason        TEXT,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS talkbill_jobs_pending_idx ON talkbill_jobs (created_at) WHERE status = 'T2I_QUEUED';
CREATE INDEX IF NOT EXISTS talkbill_jobs_session_idx ON talkbill_jobs (session_id, updated_at DESC);
`

// Seeds the jobs table with a few queued transcriptions for local runs.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	var pending int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM talkbill_jobs WHERE status = $1`,
		string(model.JobStatusQueued)).Scan(&pending); err != nil {
		log.Fatalf("count pending: %v", err)
	}
	if pending > 0 {
		fmt.Printf("%d queued jobs already present. No changes.\n", pending)
		return
	}

	sessionID := uuid.NewString()
	seed := []string{
		"I bought one coffee for 100 rupees",
		"petrol 500 and milk 60",
		"what's the weather like today",
	}
	for i, transcription := range seed {
		id := uuid.NewString()
		_, err := pool.Exec(ctx, `
INSERT INTO talkbill_jobs (id, session_id, ref_id, transcription, status)
VALUES ($1, $2, $3, $4, $5)`,
			id, sessionID, fmt.Sprintf("seed-%d", i+1), transcription, string(model.JobStatusQueued))
		if err != nil {
			log.Fatalf("insert job: %v", err)
		}
		fmt.Printf("seeded: %q (id=%s)\n", transcription, id)
	}
	fmt.Println("Seeding complete.")
}
