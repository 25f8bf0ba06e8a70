package infrastructure

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"solaretl/internal/domain"
)

// ParseReportDump decodes a CSV report dump into raw report rows. Columns
// are resolved by header name, so the dump's column order does not matter.
// Rows with malformed counts are skipped; revenue stays a string until the
// transformer coerces it.
func ParseReportDump(r io.Reader) ([]domain.RawReportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("report dump is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	required := []string{
		domain.ColumnDate,
		domain.ColumnAdUnitID,
		domain.ColumnAdUnitName,
		domain.ColumnImpressions,
		domain.ColumnRevenue,
		domain.ColumnTotalAdRequests,
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("report dump is missing column %q", name)
		}
	}

	var rows []domain.RawReportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}
		if len(record) < len(header) {
			continue
		}

		impressions, err := strconv.ParseInt(strings.TrimSpace(record[index[domain.ColumnImpressions]]), 10, 64)
		if err != nil {
			continue
		}
		requests, err := strconv.ParseInt(strings.TrimSpace(record[index[domain.ColumnTotalAdRequests]]), 10, 64)
		if err != nil {
			continue
		}

		rows = append(rows, domain.RawReportRow{
			Date:            strings.TrimSpace(record[index[domain.ColumnDate]]),
			AdUnitID:        strings.TrimSpace(record[index[domain.ColumnAdUnitID]]),
			AdUnitName:      record[index[domain.ColumnAdUnitName]],
			Impressions:     impressions,
			Revenue:         record[index[domain.ColumnRevenue]],
			TotalAdRequests: requests,
		})
	}

	return rows, nil
}
