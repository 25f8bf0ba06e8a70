package transform

import (
	"regexp"
	"strings"
)

// PathDelimiter separates the levels of a flat ad-unit name,
// e.g. "20minutes_web (1) » News (2) » Photos_Diapo (3)".
const PathDelimiter = "»"

// every segment is "<label> (<numeric id>)"
var segmentPattern = regexp.MustCompile(`([a-zA-Z_.0-9]+)\s\(([0-9]+)\)`)

// one level of the ad-unit hierarchy
type Segment struct {
	Label string
	ID    string
}

// ordered levels of a flat ad-unit name; a level whose segment did not
// match the expected pattern holds a zero-value Segment
type AdUnitPath struct {
	Segments []Segment
}

// ParsePath splits a flat ad-unit name on the hierarchy delimiter and
// extracts the label and numeric id of each segment. Partial matches are
// never promoted to labels: a segment without a parenthesized numeric id
// yields an absent (empty) label for that level.
func ParsePath(name string) AdUnitPath {
	parts := strings.Split(name, PathDelimiter)
	segments := make([]Segment, len(parts))

	for i, part := range parts {
		m := segmentPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		segments[i] = Segment{Label: m[1], ID: m[2]}
	}

	return AdUnitPath{Segments: segments}
}

// Label returns the label of the segment at the given level, or "" when the
// path is shorter than that or the segment did not parse.
func (p AdUnitPath) Label(level int) string {
	if level < 0 || level >= len(p.Segments) {
		return ""
	}
	return p.Segments[level].Label
}

// LeafLabel returns the label of the last path segment.
func (p AdUnitPath) LeafLabel() string {
	return p.Label(len(p.Segments) - 1)
}
