package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePath(t *testing.T) {
	path := ParsePath("20minutes_web (1) » News (2) » Photos_Diapo (3)")

	assert.Len(t, path.Segments, 3)
	assert.Equal(t, Segment{Label: "20minutes_web", ID: "1"}, path.Segments[0])
	assert.Equal(t, "20minutes_web", path.Label(0))
	assert.Equal(t, "News", path.Label(1))
	assert.Equal(t, "Photos_Diapo", path.Label(2))
	assert.Equal(t, "Photos_Diapo", path.LeafLabel())
}

func TestParsePathSingleSegment(t *testing.T) {
	path := ParsePath("20minutes_web (12)")

	assert.Len(t, path.Segments, 1)
	assert.Equal(t, "20minutes_web", path.Label(0))
	assert.Equal(t, "", path.Label(1))
	assert.Equal(t, "", path.Label(2))
	assert.Equal(t, "20minutes_web", path.LeafLabel())
}

func TestParsePathUnmatchedSegment(t *testing.T) {
	// no parenthesized numeric id: the label is absent, not a partial match
	path := ParsePath("20minutes_web (1) » no-id-here » Photos_art (3)")

	assert.Equal(t, "20minutes_web", path.Label(0))
	assert.Equal(t, "", path.Label(1))
	assert.Equal(t, "Photos_art", path.Label(2))
}

func TestParsePathDeepHierarchy(t *testing.T) {
	path := ParsePath("20minutes_mobile (1) » amp (2) » Sport_art (3) » extra (4) » leaf (5)")

	assert.Len(t, path.Segments, 5)
	assert.Equal(t, "amp", path.Label(1))
	assert.Equal(t, "leaf", path.LeafLabel())
}

func TestParsePathOutOfRange(t *testing.T) {
	path := ParsePath("20minutes_web (1)")

	assert.Equal(t, "", path.Label(-1))
	assert.Equal(t, "", path.Label(7))
}

func TestParsePathLabelCharset(t *testing.T) {
	// labels may contain dots and digits
	path := ParsePath("site.v2 (10) » Sub_section.3 (20)")

	assert.Equal(t, "site.v2", path.Label(0))
	assert.Equal(t, "Sub_section.3", path.Label(1))
}
