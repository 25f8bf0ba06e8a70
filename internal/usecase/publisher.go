package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"solaretl/internal/domain"
	"solaretl/pkg/logger"
)

// fixed destination of the daily export
const (
	objectKeyPrefix = "internal/applications/solar/gam/"
	objectNameFmt   = "solar_20mn_ads.gam_revenue_page_%s.csv"
	csvContentType  = "text/csv"
)

// output column order is part of the downstream contract
var csvHeader = []string{
	"date", "device_type", "section", "sub_section",
	"impressions", "revenue", "total_ad_requests",
}

// serializes the aggregated table to CSV and uploads it
type Publisher struct {
	store  domain.ObjectStore
	logger *logger.Logger
}

func NewPublisher(store domain.ObjectStore, logger *logger.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// ObjectKey returns the deterministic storage key for a report date.
func ObjectKey(date time.Time) string {
	return objectKeyPrefix + fmt.Sprintf(objectNameFmt, date.Format("2006-01-02"))
}

// EncodeCSV serializes the aggregated table: header row plus one line per
// aggregated row. Input order is preserved, so sorted input yields
// byte-identical output across runs.
func EncodeCSV(rows []domain.AggregatedRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.DeviceType,
			row.Section,
			row.SubSection,
			strconv.FormatInt(row.Impressions, 10),
			strconv.FormatFloat(row.Revenue, 'f', -1, 64),
			strconv.FormatInt(row.TotalAdRequests, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// Publish uploads the aggregated table for one date and returns the object
// key. The upload is a single call: it fully succeeds or fails.
func (p *Publisher) Publish(ctx context.Context, rows []domain.AggregatedRow, date time.Time) (string, error) {
	body, err := EncodeCSV(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := ObjectKey(date)
	if err := p.store.Put(ctx, key, body, csvContentType); err != nil {
		return "", fmt.Errorf("failed to publish export: %w", err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"key":  key,
		"rows": len(rows),
		"date": date.Format("2006-01-02"),
	}).Info("Published daily export")

	return key, nil
}
