package domain

import "time"

type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// outcome of one date's pipeline run
type RunResult struct {
	RunID      string        `json:"run_id"`
	Date       time.Time     `json:"date"`
	Status     RunStatus     `json:"status"`
	Rows       int           `json:"rows"`
	ObjectKey  string        `json:"object_key,omitempty"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// per-date status summary for a historical backfill
type BackfillSummary struct {
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	FailedDates []string    `json:"failed_dates,omitempty"`
	Results     []RunResult `json:"results"`
}
