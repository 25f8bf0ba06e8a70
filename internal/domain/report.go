package domain

import "time"

// Report dump column headers as returned by the report-job API.
const (
	ColumnDate            = "Dimension.DATE"
	ColumnAdUnitID        = "Dimension.AD_UNIT_ID"
	ColumnAdUnitName      = "Dimension.AD_UNIT_NAME"
	ColumnImpressions     = "Column.TOTAL_LINE_ITEM_LEVEL_IMPRESSIONS"
	ColumnRevenue         = "Column.TOTAL_LINE_ITEM_LEVEL_ALL_REVENUE"
	ColumnTotalAdRequests = "Column.TOTAL_AD_REQUESTS"
)

// one row per (date, ad unit) as decoded from the report dump
type RawReportRow struct {
	Date            string `json:"date"`
	AdUnitID        string `json:"ad_unit_id"`
	AdUnitName      string `json:"ad_unit_name"`
	Impressions     int64  `json:"impressions"`
	Revenue         string `json:"revenue"`
	TotalAdRequests int64  `json:"total_ad_requests"`
}

// a raw row with the ad-unit path resolved into reporting dimensions
type NormalizedRow struct {
	Date            time.Time `json:"date"`
	AdUnitLevel0    string    `json:"ad_unit_level_0"`
	DeviceType      string    `json:"device_type"`
	Section         string    `json:"section"`
	SubSection      string    `json:"sub_section"`
	AdUnitName      string    `json:"ad_unit_name"`
	Impressions     int64     `json:"impressions"`
	Revenue         float64   `json:"revenue"`
	TotalAdRequests int64     `json:"total_ad_requests"`
}

// grouping key for the final aggregation
type GroupKey struct {
	Date       string
	DeviceType string
	Section    string
	SubSection string
}

// String returns a string representation of GroupKey for use as map key
func (k GroupKey) String() string {
	return k.Date + "|" + k.DeviceType + "|" + k.Section + "|" + k.SubSection
}

// one output row, unique per (date, device_type, section, sub_section)
type AggregatedRow struct {
	Date            time.Time `json:"date"`
	DeviceType      string    `json:"device_type"`
	Section         string    `json:"section"`
	SubSection      string    `json:"sub_section"`
	Impressions     int64     `json:"impressions"`
	Revenue         float64   `json:"revenue"`
	TotalAdRequests int64     `json:"total_ad_requests"`
}

// Key returns the grouping key of the row.
func (r AggregatedRow) Key() GroupKey {
	return GroupKey{
		Date:       r.Date.Format("2006-01-02"),
		DeviceType: r.DeviceType,
		Section:    r.Section,
		SubSection: r.SubSection,
	}
}
