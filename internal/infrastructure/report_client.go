package infrastructure

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"solaretl/internal/domain"
	"solaretl/pkg/config"
	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"golang.org/x/time/rate"
)

// report job statuses returned by the report-job API
const (
	jobStatusCompleted = "COMPLETED"
	jobStatusFailed    = "FAILED"
)

var reportDimensions = []string{"DATE", "AD_UNIT_ID", "AD_UNIT_NAME"}

var reportColumns = []string{
	"TOTAL_LINE_ITEM_LEVEL_IMPRESSIONS",
	"TOTAL_LINE_ITEM_LEVEL_ALL_REVENUE",
	"TOTAL_AD_REQUESTS",
}

// request body for creating a report job
type reportQuery struct {
	Dimensions    []string `json:"dimensions"`
	AdUnitView    string   `json:"adUnitView"`
	Columns       []string `json:"columns"`
	DateRangeType string   `json:"dateRangeType"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
}

type reportJobRequest struct {
	ReportQuery reportQuery `json:"reportQuery"`
}

type reportJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// implements the ReportService interface against the ad-manager
// report-job API: create job, poll until ready, download the dump
type ReportClient struct {
	client       *http.Client
	baseURL      string
	networkCode  string
	apiToken     string
	pollInterval time.Duration
	jobTimeout   time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *logger.Logger
	metrics      *metrics.Metrics
	rateLimiter  *rate.Limiter
}

// creates a new report-job API client
func NewReportClient(cfg config.ReportConfig, logger *logger.Logger, metrics *metrics.Metrics) *ReportClient {
	return &ReportClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      cfg.BaseURL,
		networkCode:  cfg.NetworkCode,
		apiToken:     cfg.APIToken,
		pollInterval: cfg.PollInterval,
		jobTimeout:   cfg.JobTimeout,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
		metrics:      metrics,
		rateLimiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), 1),
	}
}

// FetchReport runs a one-day report job for the given date and returns the
// decoded raw record table. Any job failure aborts the fetch; the caller is
// expected to abort the date's pipeline run.
func (c *ReportClient) FetchReport(ctx context.Context, date time.Time) ([]domain.RawReportRow, error) {
	start := time.Now()

	jobID, err := c.createJobWithRetry(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to create report job: %w", err)
	}

	if err := c.waitForJob(ctx, jobID); err != nil {
		return nil, fmt.Errorf("report job %s did not complete: %w", jobID, err)
	}

	rows, err := c.downloadReport(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to download report %s: %w", jobID, err)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"job_id":   jobID,
		"date":     date.Format("2006-01-02"),
		"rows":     len(rows),
		"duration": time.Since(start),
	}).Info("Successfully fetched report")

	return rows, nil
}

// createJobWithRetry submits the report job, retrying transient failures
// with a fixed backoff.
func (c *ReportClient) createJobWithRetry(ctx context.Context, date time.Time) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryBackoff):
			}
		}

		jobID, err := c.createJob(ctx, date)
		if err == nil {
			return jobID, nil
		}
		lastErr = err
		c.logger.WithContext(ctx).WithError(err).WithField("attempt", attempt+1).Warn("Report job creation failed")
	}

	return "", lastErr
}

func (c *ReportClient) createJob(ctx context.Context, date time.Time) (string, error) {
	start := time.Now()

	// Apply rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("report_create", "rate_limit")
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	day := date.Format("2006-01-02")
	payload, err := json.Marshal(reportJobRequest{
		ReportQuery: reportQuery{
			Dimensions:    reportDimensions,
			AdUnitView:    "FLAT",
			Columns:       reportColumns,
			DateRangeType: "CUSTOM_DATE",
			StartDate:     day,
			EndDate:       day,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal report query: %w", err)
	}

	url := fmt.Sprintf("%s/networks/%s/reports", c.baseURL, c.networkCode)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_create", "request_creation")
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_create", "network_error")
		return "", fmt.Errorf("failed to submit report job: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.metrics.RecordExternalAPICall("report_create", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return "", fmt.Errorf("report API returned status %d", resp.StatusCode)
	}

	var job reportJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		c.metrics.RecordExternalAPIFailure("report_create", "json_parse")
		return "", fmt.Errorf("failed to parse report job response: %w", err)
	}
	if job.ID == "" {
		c.metrics.RecordExternalAPIFailure("report_create", "missing_job_id")
		return "", fmt.Errorf("report API returned no job id")
	}

	c.metrics.RecordExternalAPICall("report_create", "success", duration)
	return job.ID, nil
}

// waitForJob polls the job status until completion, failure, or the job
// deadline expires. Deadline expiry surfaces as a context error so the
// caller can treat it as a retryable fetch failure.
func (c *ReportClient) waitForJob(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return err
		}

		switch status {
		case jobStatusCompleted:
			return nil
		case jobStatusFailed:
			c.metrics.RecordExternalAPIFailure("report_status", "job_failed")
			return fmt.Errorf("report job failed remotely")
		}

		select {
		case <-ctx.Done():
			c.metrics.RecordExternalAPIFailure("report_status", "timeout")
			return fmt.Errorf("timed out waiting for report job: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *ReportClient) jobStatus(ctx context.Context, jobID string) (string, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("report_status", "rate_limit")
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	url := fmt.Sprintf("%s/networks/%s/reports/%s/status", c.baseURL, c.networkCode, jobID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_status", "request_creation")
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_status", "network_error")
		return "", fmt.Errorf("failed to poll report job: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordExternalAPICall("report_status", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return "", fmt.Errorf("report API returned status %d", resp.StatusCode)
	}

	var job reportJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		c.metrics.RecordExternalAPIFailure("report_status", "json_parse")
		return "", fmt.Errorf("failed to parse job status: %w", err)
	}

	c.metrics.RecordExternalAPICall("report_status", "success", duration)
	return job.Status, nil
}

// downloadReport fetches the gzip CSV dump into a temporary file scoped to
// this call and decodes it into raw report rows. The temp file is removed
// on every exit path.
func (c *ReportClient) downloadReport(ctx context.Context, jobID string) ([]domain.RawReportRow, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	url := fmt.Sprintf("%s/networks/%s/reports/%s/download?exportFormat=CSV_DUMP", c.baseURL, c.networkCode, jobID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "network_error")
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordExternalAPICall("report_download", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("report API returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "report-*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "gzip")
		return nil, fmt.Errorf("failed to open report dump: %w", err)
	}
	defer gz.Close()

	if _, err := io.Copy(tmp, gz); err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "read_body")
		return nil, fmt.Errorf("failed to spool report dump: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind report dump: %w", err)
	}

	rows, err := ParseReportDump(tmp)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("report_download", "csv_parse")
		return nil, fmt.Errorf("failed to decode report dump: %w", err)
	}

	c.metrics.RecordExternalAPICall("report_download", "success", duration)
	return rows, nil
}

func (c *ReportClient) setAuth(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}
