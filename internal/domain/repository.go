package domain

import (
	"context"
	"time"
)

// interface for the report-job API
type ReportService interface {
	FetchReport(ctx context.Context, date time.Time) ([]RawReportRow, error)
}

// interface for the object store the daily CSV is published to
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// interface for recording per-date run outcomes
type RunRepository interface {
	Store(ctx context.Context, result RunResult) error
	GetByDate(ctx context.Context, date time.Time) (*RunResult, error)
	List(ctx context.Context) ([]RunResult, error)
}
