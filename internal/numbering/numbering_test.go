package numbering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "FIR-TSB01-2025-0007", Format(PrefixFir, "TSB01", 2025, 7))
	assert.Equal(t, "CASE-HC-LHR-2025-0001", Format(PrefixCase, "HC-LHR", 2025, 1))
	assert.Equal(t, "FIR-X-2026-12345", Format(PrefixFir, "X", 2026, 12345))
}

func TestScopePrefixIsPrefixOfFormat(t *testing.T) {
	prefix := ScopePrefix(PrefixCase, "EC-LHR", 2025)
	assert.Equal(t, "CASE-EC-LHR-2025-", prefix)
	assert.True(t, strings.HasPrefix(Format(PrefixCase, "EC-LHR", 2025, 3), prefix))
	assert.False(t, strings.HasPrefix(Format(PrefixFir, "TSB01X", 2025, 1), ScopePrefix(PrefixFir, "TSB01", 2025)))
}

func TestStationCode(t *testing.T) {
	cases := map[string]string{
		"TSB-01":     "TSB01",
		" tsb 01 ":   "TSB01",
		"LHR/GULB#3": "LHRGULB3",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StationCode(in), in)
	}
}

func TestCourtCode(t *testing.T) {
	assert.Equal(t, "HC-LHR", CourtCode("High Court", "Lahore"))
	assert.Equal(t, "DSC-KHI", CourtCode("  District and  Sessions Court", "KARACHI"))
	assert.Equal(t, "SC-ISB", CourtCode("supreme court", "islamabad"))
}

func TestCourtCodeFallbacks(t *testing.T) {
	assert.Equal(t, "NGT", CourtTypeCode("National Green Tribunal"))
	assert.Equal(t, "CT", CourtTypeCode("   "))

	assert.Equal(t, "SHE", CityCode("Sheikhupura"))
	assert.Equal(t, "DIK", CityCode("D.I. Khan"))
	assert.Equal(t, "ZO", CityCode("Zo"))
	assert.Equal(t, "XXX", CityCode(""))
}
