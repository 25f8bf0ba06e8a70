package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solaretl/internal/domain"
)

func rawRow(date, adUnitName string, impressions int64, revenue string, requests int64) domain.RawReportRow {
	return domain.RawReportRow{
		Date:            date,
		AdUnitID:        "42",
		AdUnitName:      adUnitName,
		Impressions:     impressions,
		Revenue:         revenue,
		TotalAdRequests: requests,
	}
}

func TestNormalizeScenario(t *testing.T) {
	raw := rawRow("2024-01-01", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 100, "5.5", 120)

	row, dropReason := Normalize(raw)
	require.Empty(t, dropReason)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), row.Date)
	assert.Equal(t, "20minutes_web", row.AdUnitLevel0)
	assert.Equal(t, "Desktop", row.DeviceType)
	assert.Equal(t, "News", row.Section)
	assert.Equal(t, "Photos_Diapo", row.SubSection)
	assert.Equal(t, "Photos_Diapo", row.AdUnitName)
	assert.Equal(t, int64(100), row.Impressions)
	assert.Equal(t, 5.5, row.Revenue)
	assert.Equal(t, int64(120), row.TotalAdRequests)
}

func TestNormalizeDeviceMapping(t *testing.T) {
	// mapped platform
	row, dropReason := Normalize(rawRow("2024-01-01", "20minutes_mobile (1) » amp (2) » Other (3)", 1, "0.1", 1))
	require.Empty(t, dropReason)
	assert.Equal(t, "Mobile Web", row.DeviceType)

	// unmapped labels pass through unchanged
	assert.Equal(t, "20minutes_other", DeviceType("20minutes_other"))
	assert.Equal(t, "Desktop", DeviceType("20minutes_web_video_P2"))
}

func TestNormalizePlatformFilter(t *testing.T) {
	// excluded platform is dropped regardless of section/sub-section
	_, dropReason := Normalize(rawRow("2024-01-01", "20minutes_tablet (1) » News (2) » Photos_Diapo (3)", 10, "1.0", 10))
	assert.Equal(t, DropPlatformFilter, dropReason)

	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_other (1) » amp (2) » Sport_art (3)", 10, "1.0", 10))
	assert.Equal(t, DropPlatformFilter, dropReason)
}

func TestNormalizeContentFilter(t *testing.T) {
	// amp section keeps the row regardless of sub-section suffix
	row, dropReason := Normalize(rawRow("2024-01-01", "20minutes_mobile (1) » amp (2) » Other (3)", 10, "1.0", 10))
	require.Empty(t, dropReason)
	assert.Equal(t, "amp", row.Section)
	assert.Equal(t, "Other", row.SubSection)

	// article suffix
	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_web (1) » Sport (2) » Sport_art (3)", 10, "1.0", 10))
	assert.Empty(t, dropReason)

	// neither suffix nor amp
	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_web (1) » Sport (2) » Video (3)", 10, "1.0", 10))
	assert.Equal(t, DropContentFilter, dropReason)

	// two-level path: absent sub-section outside amp is dropped
	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_web (1) » Sport (2)", 10, "1.0", 10))
	assert.Equal(t, DropContentFilter, dropReason)

	// unparseable section segment cannot satisfy the amp clause either
	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_web (1) » broken segment » Video (3)", 10, "1.0", 10))
	assert.Equal(t, DropContentFilter, dropReason)
}

func TestNormalizeBadValues(t *testing.T) {
	_, dropReason := Normalize(rawRow("not-a-date", "20minutes_web (1) » amp (2) » x_art (3)", 10, "1.0", 10))
	assert.Equal(t, DropDateParse, dropReason)

	_, dropReason = Normalize(rawRow("2024-01-01", "20minutes_web (1) » amp (2) » x_art (3)", 10, "N/A", 10))
	assert.Equal(t, DropRevenueParse, dropReason)
}

func TestContentIncluded(t *testing.T) {
	assert.True(t, ContentIncluded("News", "Photos_Diapo"))
	assert.True(t, ContentIncluded("News", "Sport_art"))
	assert.True(t, ContentIncluded("amp", "anything"))
	assert.True(t, ContentIncluded("amp", ""))
	assert.False(t, ContentIncluded("News", "Video"))
	assert.False(t, ContentIncluded("", ""))
}

func TestTransformAggregatesByKey(t *testing.T) {
	rows := []domain.RawReportRow{
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 100, "5.5", 120),
		rawRow("2024-01-01", "20minutes_web (4) » News (2) » Photos_Diapo (3)", 50, "2.5", 60),
	}

	out, stats := Transform(rows)
	require.Len(t, out, 1)

	assert.Equal(t, 2, stats.Input)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, int64(150), out[0].Impressions)
	assert.Equal(t, 8.0, out[0].Revenue)
	assert.Equal(t, int64(180), out[0].TotalAdRequests)
}

func TestTransformGroupKeyUniqueness(t *testing.T) {
	rows := []domain.RawReportRow{
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 10, "1.0", 10),
		rawRow("2024-01-01", "20minutes_mobile (1) » News (2) » Photos_Diapo (3)", 20, "2.0", 20),
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 30, "3.0", 30),
		rawRow("2024-01-02", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 40, "4.0", 40),
	}

	out, _ := Transform(rows)

	seen := make(map[domain.GroupKey]bool)
	for _, row := range out {
		assert.False(t, seen[row.Key()], "duplicate group key %v", row.Key())
		seen[row.Key()] = true
	}
	assert.Len(t, out, 3)
}

func TestTransformSumConservation(t *testing.T) {
	rows := []domain.RawReportRow{
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » Photos_Diapo (3)", 100, "5.5", 120),
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » Sport_art (4)", 25, "1.0", 30),
		rawRow("2024-01-01", "20minutes_mobile (1) » amp (2) » Other (3)", 7, "0.2", 9),
		rawRow("2024-01-01", "20minutes_tablet (1) » News (2) » Photos_Diapo (3)", 999, "9.9", 999),
		rawRow("2024-01-01", "20minutes_web (1) » Sport (2) » Video (3)", 888, "8.8", 888),
	}

	out, stats := Transform(rows)

	// impressions over the output equal impressions over the rows passing both filters
	var outSum int64
	for _, row := range out {
		outSum += row.Impressions
	}
	assert.Equal(t, int64(132), outSum)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, 1, stats.Dropped[DropPlatformFilter])
	assert.Equal(t, 1, stats.Dropped[DropContentFilter])
}

func TestTransformDeterministicOrder(t *testing.T) {
	rows := []domain.RawReportRow{
		rawRow("2024-01-01", "20minutes_mobile (1) » amp (2) » Z (3)", 1, "1", 1),
		rawRow("2024-01-01", "20minutes_web (1) » News (2) » A_art (3)", 1, "1", 1),
		rawRow("2024-01-01", "20minutes_mobile (1) » amp (2) » A (3)", 1, "1", 1),
	}

	first, _ := Transform(rows)
	second, _ := Transform(rows)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Key().String(), first[i].Key().String())
	}
}

func TestTransformEmptyInput(t *testing.T) {
	out, stats := Transform(nil)
	assert.Empty(t, out)
	assert.Equal(t, 0, stats.Input)
	assert.Equal(t, 0, stats.Kept)
}
