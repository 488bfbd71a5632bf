// Package integrity derives and checks the keyless tamper-evidence signature stored on
// emission reports.
package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	nullSentinel    = "NULL"
	fieldSeparator  = "|"
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Reading holds the signed fields of an emission report.
type Reading struct {
	DeviceID      string
	CO            *float64
	CO2           *float64
	HC            *float64
	NOx           *float64
	SoundLevelDBa float64
	TestDateTime  time.Time
}

type Verification struct {
	IsAuthentic       bool
	ComputedSignature string
	StoredSignature   string
}

// Canonicalize rounds numerics to two decimals and truncates the timestamp to
// microseconds in UTC, which is what survives a postgres numeric(10,2) and timestamptz
// round trip. Readings must be canonicalized before they are both stored and signed.
func Canonicalize(r Reading) Reading {
	return Reading{
		DeviceID:      r.DeviceID,
		CO:            roundPtr(r.CO),
		CO2:           roundPtr(r.CO2),
		HC:            roundPtr(r.HC),
		NOx:           roundPtr(r.NOx),
		SoundLevelDBa: RoundCents(r.SoundLevelDBa),
		TestDateTime:  r.TestDateTime.UTC().Truncate(time.Microsecond),
	}
}

// CanonicalString is the exact text that gets hashed. Field order is significant.
func CanonicalString(r Reading) string {
	parts := []string{
		r.DeviceID,
		formatNullable(r.CO),
		formatNullable(r.CO2),
		formatNullable(r.HC),
		formatNullable(r.NOx),
		formatFixed(r.SoundLevelDBa),
		r.TestDateTime.UTC().Format(timestampLayout),
	}
	return strings.Join(parts, fieldSeparator)
}

// Generate returns base64(SHA-256(CanonicalString(r))).
func Generate(r Reading) string {
	sum := sha256.Sum256([]byte(CanonicalString(r)))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify recomputes the signature from the stored fields. It never mutates anything.
func Verify(r Reading, stored string) Verification {
	computed := Generate(r)
	return Verification{
		IsAuthentic:       subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1,
		ComputedSignature: computed,
		StoredSignature:   stored,
	}
}

// RoundCents rounds half away from zero to two decimal places. Rounding is done on the
// shortest decimal representation of v, so 1.005 becomes 1.01 the way postgres numeric
// rounds it, rather than 1.00 as binary arithmetic on 1.00499999... would give.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(roundDecimal(strconv.FormatFloat(v, 'f', -1, 64), 2), 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	return rounded
}

func roundDecimal(s string, places int) string {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) <= places {
		return sign(negative) + intPart + "." + fracPart + strings.Repeat("0", places-len(fracPart))
	}

	digits := []byte(intPart + fracPart[:places])
	if fracPart[places] >= '5' {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] < '9' {
				digits[i]++
				break
			}
			digits[i] = '0'
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	split := len(digits) - places
	return sign(negative) + string(digits[:split]) + "." + string(digits[split:])
}

func sign(negative bool) string {
	if negative {
		return "-"
	}
	return ""
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := RoundCents(*v)
	return &rounded
}

func formatNullable(v *float64) string {
	if v == nil {
		return nullSentinel
	}
	return formatFixed(*v)
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(RoundCents(v), 'f', 2, 64)
}
