package integrity_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"noise-sentinel/internal/integrity"
)

func readingFrom(device string, co float64, coNull bool, sound float64, offsetSeconds int64) integrity.Reading {
	r := integrity.Reading{
		DeviceID:      device,
		SoundLevelDBa: sound,
		TestDateTime:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(offsetSeconds) * time.Second),
	}
	if !coNull {
		r.CO = &co
	}
	return integrity.Canonicalize(r)
}

// Property: Generate(r) == Generate(r) for any reading.
func TestSignatureDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("generate is deterministic", prop.ForAll(
		func(device string, co float64, coNull bool, sound float64, offset int64) bool {
			r := readingFrom(device, co, coNull, sound, offset)
			return integrity.Generate(r) == integrity.Generate(r)
		},
		gen.AlphaString(),
		gen.Float64Range(0, 10000),
		gen.Bool(),
		gen.Float64Range(0.01, 200),
		gen.Int64Range(0, 10*365*24*3600),
	))

	properties.TestingRun(t)
}

// Property: a changed sound level (at cent precision) always changes the signature.
func TestSignatureSensitivityToSoundLevel(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("sound level change is detected", prop.ForAll(
		func(cents int64, delta int64) bool {
			base := readingFrom("IOT-01", 0, true, float64(cents)/100, 0)
			changed := readingFrom("IOT-01", 0, true, float64(cents+delta)/100, 0)
			return integrity.Generate(base) != integrity.Generate(changed)
		},
		gen.Int64Range(1, 20000),
		gen.Int64Range(1, 500),
	))

	properties.TestingRun(t)
}

// Property: flipping a nullable field between NULL and any value changes the signature,
// and Verify of the stored signature only succeeds on the unmodified reading.
func TestSignatureNullFlipAndVerify(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("null flip is detected", prop.ForAll(
		func(co float64, sound float64) bool {
			withValue := readingFrom("IOT-01", co, false, sound, 60)
			withNull := readingFrom("IOT-01", co, true, sound, 60)
			stored := integrity.Generate(withValue)
			return stored != integrity.Generate(withNull) &&
				integrity.Verify(withValue, stored).IsAuthentic &&
				!integrity.Verify(withNull, stored).IsAuthentic
		},
		gen.Float64Range(0, 10000),
		gen.Float64Range(0.01, 200),
	))

	properties.TestingRun(t)
}
