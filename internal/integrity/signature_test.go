package integrity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func sampleReading() Reading {
	return Reading{
		DeviceID:      "0d3c1c5e-7e43-4f0a-9a51-2f8f0e1f6c11",
		CO:            floatPtr(1.25),
		CO2:           nil,
		HC:            floatPtr(0.4),
		NOx:           nil,
		SoundLevelDBa: 97.5,
		TestDateTime:  time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestCanonicalString(t *testing.T) {
	got := CanonicalString(sampleReading())
	assert.Equal(t,
		"0d3c1c5e-7e43-4f0a-9a51-2f8f0e1f6c11|1.25|NULL|0.40|NULL|97.50|2025-01-10T10:00:00.000000Z",
		got)
}

func TestCanonicalStringNormalisesTimezone(t *testing.T) {
	r := sampleReading()
	pkt := time.FixedZone("PKT", 5*60*60)
	r2 := r
	r2.TestDateTime = r.TestDateTime.In(pkt)

	assert.Equal(t, CanonicalString(r), CanonicalString(r2))
	assert.Equal(t, Generate(r), Generate(r2))
}

func TestGenerateIsDeterministic(t *testing.T) {
	r := sampleReading()
	first := Generate(r)
	second := Generate(r)

	assert.Equal(t, first, second)
	assert.Len(t, first, 44)
}

func TestGenerateIsSensitiveToEveryField(t *testing.T) {
	base := sampleReading()
	signature := Generate(base)

	mutations := map[string]func(r *Reading){
		"device":           func(r *Reading) { r.DeviceID = "IOT-02" },
		"co value":         func(r *Reading) { r.CO = floatPtr(1.26) },
		"co to null":       func(r *Reading) { r.CO = nil },
		"co2 from null":    func(r *Reading) { r.CO2 = floatPtr(0) },
		"hc":               func(r *Reading) { r.HC = floatPtr(0.41) },
		"nox from null":    func(r *Reading) { r.NOx = floatPtr(12) },
		"sound level":      func(r *Reading) { r.SoundLevelDBa = 97.51 },
		"test date time":   func(r *Reading) { r.TestDateTime = r.TestDateTime.Add(time.Microsecond) },
		"swap co and hc":   func(r *Reading) { r.CO, r.HC = r.HC, r.CO },
		"sound to integer": func(r *Reading) { r.SoundLevelDBa = 97 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := base
			mutate(&r)
			assert.NotEqual(t, signature, Generate(r))
		})
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	r := Canonicalize(sampleReading())
	stored := Generate(r)

	result := Verify(r, stored)
	require.True(t, result.IsAuthentic)
	assert.Equal(t, stored, result.ComputedSignature)
	assert.Equal(t, stored, result.StoredSignature)

	tampered := r
	tampered.SoundLevelDBa = 80
	result = Verify(tampered, stored)
	assert.False(t, result.IsAuthentic)
	assert.NotEqual(t, result.ComputedSignature, result.StoredSignature)
}

func TestCanonicalizeSurvivesStorageRoundTrip(t *testing.T) {
	raw := Reading{
		DeviceID:      "dev",
		CO:            floatPtr(1.005),
		SoundLevelDBa: 97.499,
		TestDateTime:  time.Date(2025, 1, 10, 10, 0, 0, 123456789, time.UTC),
	}
	canonical := Canonicalize(raw)
	signature := Generate(canonical)

	// What postgres hands back: numeric(10,2) and microsecond timestamps.
	reloaded := Reading{
		DeviceID:      "dev",
		CO:            floatPtr(1.01),
		SoundLevelDBa: 97.50,
		TestDateTime:  time.Date(2025, 1, 10, 15, 0, 0, 123456000, time.FixedZone("PKT", 5*60*60)),
	}
	assert.True(t, Verify(reloaded, signature).IsAuthentic)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 97.5, RoundCents(97.5))
	assert.Equal(t, 1.01, RoundCents(1.005))
	assert.Equal(t, -2.35, RoundCents(-2.345))
	assert.Equal(t, 0.0, RoundCents(0.004))
}
