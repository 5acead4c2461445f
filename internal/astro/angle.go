package astro

import (
	"errors"
	"fmt"
	"math"
)

// Canonical sign names in zodiac order; index 0 is Aries (sign index 1).
var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var (
	// ErrInvalidAngle marks a longitude that is not a finite number (NaN, ±Inf).
	ErrInvalidAngle = errors.New("angle is not a finite number")

	// ErrInvariantViolation marks a computed sign index outside [1, 12].
	// This indicates a defect in the decomposition itself, not bad input.
	ErrInvariantViolation = errors.New("sign index out of range")
)

// SignBreakdown is the zodiac decomposition of a normalized ecliptic longitude.
//
// Longitude is the normalized value in [0, 360) the breakdown was derived
// from. Seconds is rounded to 2 decimal places and is NOT carried into
// Minutes when rounding lands on exactly 60.00; the reconstruction
// degrees + minutes/60 + seconds/3600 stays within 0.01° of longitude mod 30
// either way, since 60 arc-seconds equal one arc-minute exactly.
type SignBreakdown struct {
	Longitude float64
	SignIndex int
	SignName  string
	Degrees   int
	Minutes   int
	Seconds   float64
}

// Normalize maps an ecliptic longitude of any magnitude into [0, 360)
// using floored-modulo semantics: Normalize(-10) == 350, never -10.
func Normalize(angle float64) (float64, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, fmt.Errorf("normalize angle %v: %w", angle, ErrInvalidAngle)
	}

	n := math.Mod(angle, 360)
	if n < 0 {
		n += 360
	}

	return n, nil
}

// Decompose normalizes an ecliptic longitude and splits it into its zodiac
// sign and degrees/minutes/seconds within that sign.
func Decompose(angle float64) (SignBreakdown, error) {
	n, err := Normalize(angle)
	if err != nil {
		return SignBreakdown{}, fmt.Errorf("decompose: %w", err)
	}

	signIndex := int(math.Floor(n/30)) + 1
	if signIndex < 1 || signIndex > 12 {
		return SignBreakdown{}, fmt.Errorf(
			"decompose angle %v: computed sign index %d: %w",
			angle, signIndex, ErrInvariantViolation,
		)
	}

	// n is already in [0, 360), so the remainder is in [0, 30).
	r := math.Mod(n, 30)
	degrees := int(math.Floor(r))

	arcMinutes := (r - float64(degrees)) * 60
	minutes := int(math.Floor(arcMinutes))

	seconds := (arcMinutes - float64(minutes)) * 60
	seconds = math.Round(seconds*100) / 100

	return SignBreakdown{
		Longitude: n,
		SignIndex: signIndex,
		SignName:  signNames[signIndex-1],
		Degrees:   degrees,
		Minutes:   minutes,
		Seconds:   seconds,
	}, nil
}

// OppositePoint returns the longitude exactly 180° from the given angle,
// normalized into [0, 360). Used to derive a body modeled as the exact
// opposite of another (the South Node from the North Node).
func OppositePoint(angle float64) (float64, error) {
	n, err := Normalize(angle + 180)
	if err != nil {
		return 0, fmt.Errorf("opposite point: %w", err)
	}

	return n, nil
}
