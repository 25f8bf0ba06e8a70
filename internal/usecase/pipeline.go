package usecase

import (
	"context"
	"fmt"
	"time"

	"solaretl/internal/domain"
	"solaretl/internal/transform"
	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"github.com/google/uuid"
)

// orchestrates the fetch → transform → publish pipeline for one date
type Pipeline struct {
	reports   domain.ReportService
	publisher *Publisher
	runs      domain.RunRepository
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewPipeline(
	reports domain.ReportService,
	publisher *Publisher,
	runs domain.RunRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		reports:   reports,
		publisher: publisher,
		runs:      runs,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunDate processes a single report date start to finish. Any fetch or
// publish failure aborts this date only; the outcome is recorded either way.
func (p *Pipeline) RunDate(ctx context.Context, date time.Time) error {
	start := time.Now()
	p.metrics.IncPipelineRunsInProgress()
	defer p.metrics.DecPipelineRunsInProgress()

	runID := uuid.New().String()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)

	log := p.logger.WithContext(ctx).WithField("date", date.Format("2006-01-02"))
	log.Info("Starting pipeline run")

	rawRows, err := p.reports.FetchReport(ctx, date)
	if err != nil {
		p.metrics.RecordPipelineRun("failed", "fetch", time.Since(start))
		p.recordRun(ctx, runID, date, start, 0, "", err)
		return fmt.Errorf("failed to fetch report for %s: %w", date.Format("2006-01-02"), err)
	}

	aggRows, stats := transform.Transform(rawRows)
	p.metrics.RecordReportRows("kept", stats.Kept)
	for reason, count := range stats.Dropped {
		p.metrics.RecordReportRowsDropped(reason, count)
	}

	// an empty post-filter result still publishes a header-only CSV
	key, err := p.publisher.Publish(ctx, aggRows, date)
	if err != nil {
		p.metrics.RecordPipelineRun("failed", "publish", time.Since(start))
		p.recordRun(ctx, runID, date, start, len(aggRows), "", err)
		return fmt.Errorf("failed to publish export for %s: %w", date.Format("2006-01-02"), err)
	}

	duration := time.Since(start)
	p.metrics.RecordPipelineRun("success", "complete", duration)
	p.recordRun(ctx, runID, date, start, len(aggRows), key, nil)

	log.WithFields(map[string]any{
		"duration":    duration,
		"input_rows":  stats.Input,
		"kept_rows":   stats.Kept,
		"output_rows": len(aggRows),
		"object_key":  key,
	}).Info("Pipeline run completed")

	return nil
}

// RunBackfill processes every date in [from, to] in chronological order,
// one at a time. A failed date is recorded and the loop continues.
func (p *Pipeline) RunBackfill(ctx context.Context, from, to time.Time) (domain.BackfillSummary, error) {
	if from.After(to) {
		return domain.BackfillSummary{}, fmt.Errorf("backfill start %s is after end %s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	summary := domain.BackfillSummary{From: from, To: to}
	log := p.logger.WithContext(ctx)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("backfill interrupted: %w", err)
		}

		if err := p.RunDate(ctx, date); err != nil {
			summary.Failed++
			summary.FailedDates = append(summary.FailedDates, date.Format("2006-01-02"))
			log.WithError(err).WithField("date", date.Format("2006-01-02")).Error("Backfill date failed")
		} else {
			summary.Succeeded++
		}

		if result, err := p.runs.GetByDate(ctx, date); err == nil && result != nil {
			summary.Results = append(summary.Results, *result)
		}
	}

	log.WithFields(map[string]any{
		"from":      from.Format("2006-01-02"),
		"to":        to.Format("2006-01-02"),
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Info("Backfill completed")

	return summary, nil
}

func (p *Pipeline) recordRun(ctx context.Context, runID string, date, start time.Time, rows int, key string, runErr error) {
	result := domain.RunResult{
		RunID:     runID,
		Date:      date,
		Status:    domain.RunStatusSuccess,
		Rows:      rows,
		ObjectKey: key,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if runErr != nil {
		result.Status = domain.RunStatusFailed
		result.Error = runErr.Error()
	}

	if err := p.runs.Store(ctx, result); err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Failed to record run result")
	}
}
