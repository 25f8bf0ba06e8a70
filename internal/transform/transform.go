package transform

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"solaretl/internal/domain"
)

// DeviceTypes maps a top-level platform label to its reporting device
// category. Labels without an entry pass through unchanged.
var DeviceTypes = map[string]string{
	"20minutes_web":          "Desktop",
	"20minutes_web_video_P2": "Desktop",
	"20minutes_mobile":       "Mobile Web",
}

// IncludedPlatforms is the set of top-level platform labels kept in the
// export (Filter A).
var IncludedPlatforms = map[string]struct{}{
	"20minutes_web":          {},
	"20minutes_web_video_P2": {},
	"20minutes_mobile":       {},
}

// content inclusion rules (Filter B)
const (
	slideshowSuffix = "_Diapo"
	articleSuffix   = "_art"
	ampSection      = "amp"
)

// row drop reasons, used as metric labels
const (
	DropDateParse      = "date_parse"
	DropRevenueParse   = "revenue_parse"
	DropPlatformFilter = "platform_filter"
	DropContentFilter  = "content_filter"
)

// per-run transformation counters
type Stats struct {
	Input   int
	Kept    int
	Dropped map[string]int
}

func (s *Stats) drop(reason string) {
	if s.Dropped == nil {
		s.Dropped = make(map[string]int)
	}
	s.Dropped[reason]++
}

// DeviceType maps a top-level platform label through the device table.
func DeviceType(level0 string) string {
	if device, ok := DeviceTypes[level0]; ok {
		return device
	}
	return level0
}

// PlatformIncluded reports whether a row with this top-level label is kept.
func PlatformIncluded(level0 string) bool {
	_, ok := IncludedPlatforms[level0]
	return ok
}

// ContentIncluded reports whether a row with this section/sub-section is
// kept: slideshow or article sub-sections, or anything under the amp
// section. An absent sub-section outside amp is dropped.
func ContentIncluded(section, subSection string) bool {
	if strings.HasSuffix(subSection, slideshowSuffix) || strings.HasSuffix(subSection, articleSuffix) {
		return true
	}
	return section == ampSection
}

// Normalize derives the reporting dimensions for one raw row. The second
// return value is the drop reason when the row is excluded; exclusion is
// expected business behavior, not an error.
func Normalize(raw domain.RawReportRow) (domain.NormalizedRow, string) {
	date, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return domain.NormalizedRow{}, DropDateParse
	}

	revenue, err := strconv.ParseFloat(strings.TrimSpace(raw.Revenue), 64)
	if err != nil {
		return domain.NormalizedRow{}, DropRevenueParse
	}

	path := ParsePath(raw.AdUnitName)
	level0 := path.Label(0)
	if !PlatformIncluded(level0) {
		return domain.NormalizedRow{}, DropPlatformFilter
	}

	section := path.Label(1)
	subSection := path.Label(2)
	if !ContentIncluded(section, subSection) {
		return domain.NormalizedRow{}, DropContentFilter
	}

	return domain.NormalizedRow{
		Date:            date,
		AdUnitLevel0:    level0,
		DeviceType:      DeviceType(level0),
		Section:         section,
		SubSection:      subSection,
		AdUnitName:      path.LeafLabel(),
		Impressions:     raw.Impressions,
		Revenue:         revenue,
		TotalAdRequests: raw.TotalAdRequests,
	}, ""
}

// Transform normalizes, filters and aggregates a raw report table. Output
// rows are unique per (date, device_type, section, sub_section) and sorted
// by that key so repeated runs over the same input serialize identically.
func Transform(rows []domain.RawReportRow) ([]domain.AggregatedRow, Stats) {
	stats := Stats{Input: len(rows)}
	groups := make(map[domain.GroupKey]*domain.AggregatedRow)

	for _, raw := range rows {
		row, dropReason := Normalize(raw)
		if dropReason != "" {
			stats.drop(dropReason)
			continue
		}
		stats.Kept++

		key := domain.GroupKey{
			Date:       row.Date.Format("2006-01-02"),
			DeviceType: row.DeviceType,
			Section:    row.Section,
			SubSection: row.SubSection,
		}

		group, ok := groups[key]
		if !ok {
			groups[key] = &domain.AggregatedRow{
				Date:            row.Date,
				DeviceType:      row.DeviceType,
				Section:         row.Section,
				SubSection:      row.SubSection,
				Impressions:     row.Impressions,
				Revenue:         row.Revenue,
				TotalAdRequests: row.TotalAdRequests,
			}
			continue
		}
		group.Impressions += row.Impressions
		group.Revenue += row.Revenue
		group.TotalAdRequests += row.TotalAdRequests
	}

	out := make([]domain.AggregatedRow, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().String() < out[j].Key().String()
	})

	return out, stats
}
