package astro

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeConcrete(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-10, 350},
		{370, 10},
		{0, 0},
		{360, 0},
		{-360, 0},
		{720.5, 0.5},
		{-725, 355},
		{359.999, 359.999},
	}

	for _, c := range cases {
		got, err := Normalize(c.in)
		if err != nil {
			t.Fatalf("Normalize(%v): unexpected error: %v", c.in, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeRejectsNonFinite(t *testing.T) {
	for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := Normalize(in); !errors.Is(err, ErrInvalidAngle) {
			t.Errorf("Normalize(%v): err = %v, want ErrInvalidAngle", in, err)
		}
		if _, err := Decompose(in); !errors.Is(err, ErrInvalidAngle) {
			t.Errorf("Decompose(%v): err = %v, want ErrInvalidAngle", in, err)
		}
		if _, err := OppositePoint(in); !errors.Is(err, ErrInvalidAngle) {
			t.Errorf("OppositePoint(%v): err = %v, want ErrInvalidAngle", in, err)
		}
	}
}

func TestNormalizePeriodicityAndRange(t *testing.T) {
	samples := []float64{-7201.25, -360, -180.5, -10, -0.001, 0, 13.37, 180, 359.999, 360, 1234.5678}

	for _, x := range samples {
		base, err := Normalize(x)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", x, err)
		}
		if base < 0 || base >= 360 {
			t.Errorf("Normalize(%v) = %v, outside [0, 360)", x, base)
		}

		for _, k := range []float64{-3, -1, 1, 2, 10} {
			shifted, err := Normalize(x + 360*k)
			if err != nil {
				t.Fatalf("Normalize(%v): %v", x+360*k, err)
			}
			if math.Abs(shifted-base) > 1e-6 {
				t.Errorf("Normalize(%v + 360*%v) = %v, want %v", x, k, shifted, base)
			}
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, x := range []float64{-1000.5, -10, 0, 45.5, 359.9999, 810} {
		once, err := Normalize(x)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", x, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize(Normalize(%v)) = %v, want %v", x, twice, once)
		}
	}
}

func TestDecomposeConcrete(t *testing.T) {
	cases := []struct {
		in   float64
		want SignBreakdown
	}{
		{0, SignBreakdown{Longitude: 0, SignIndex: 1, SignName: "Aries", Degrees: 0, Minutes: 0, Seconds: 0}},
		{-5, SignBreakdown{Longitude: 355, SignIndex: 12, SignName: "Pisces", Degrees: 25, Minutes: 0, Seconds: 0}},
		{355, SignBreakdown{Longitude: 355, SignIndex: 12, SignName: "Pisces", Degrees: 25, Minutes: 0, Seconds: 0}},
		{359.9999, SignBreakdown{Longitude: 359.9999, SignIndex: 12, SignName: "Pisces", Degrees: 29, Minutes: 59, Seconds: 59.64}},
		{30, SignBreakdown{Longitude: 30, SignIndex: 2, SignName: "Taurus", Degrees: 0, Minutes: 0, Seconds: 0}},
		{123.4575, SignBreakdown{Longitude: 123.4575, SignIndex: 5, SignName: "Leo", Degrees: 3, Minutes: 27, Seconds: 27}},
	}

	for _, c := range cases {
		got, err := Decompose(c.in)
		if err != nil {
			t.Fatalf("Decompose(%v): unexpected error: %v", c.in, err)
		}

		if got.SignIndex != c.want.SignIndex || got.SignName != c.want.SignName {
			t.Errorf("Decompose(%v) sign = %d %q, want %d %q",
				c.in, got.SignIndex, got.SignName, c.want.SignIndex, c.want.SignName)
		}
		if got.Degrees != c.want.Degrees || got.Minutes != c.want.Minutes {
			t.Errorf("Decompose(%v) = %d°%d', want %d°%d'",
				c.in, got.Degrees, got.Minutes, c.want.Degrees, c.want.Minutes)
		}
		if math.Abs(got.Seconds-c.want.Seconds) > 0.01 {
			t.Errorf("Decompose(%v) seconds = %v, want %v", c.in, got.Seconds, c.want.Seconds)
		}
		if math.Abs(got.Longitude-c.want.Longitude) > 1e-9 {
			t.Errorf("Decompose(%v) longitude = %v, want %v", c.in, got.Longitude, c.want.Longitude)
		}
	}
}

func TestDecomposeSignCoverage(t *testing.T) {
	for deg := -720.0; deg < 720; deg += 7.3 {
		b, err := Decompose(deg)
		if err != nil {
			t.Fatalf("Decompose(%v): %v", deg, err)
		}
		if b.SignIndex < 1 || b.SignIndex > 12 {
			t.Fatalf("Decompose(%v) sign index = %d, outside [1, 12]", deg, b.SignIndex)
		}
		if b.Degrees < 0 || b.Degrees > 29 {
			t.Fatalf("Decompose(%v) degrees = %d, outside [0, 29]", deg, b.Degrees)
		}
		if b.Minutes < 0 || b.Minutes > 59 {
			t.Fatalf("Decompose(%v) minutes = %d, outside [0, 59]", deg, b.Minutes)
		}
	}
}

// Every sign boundary must land on degree 0 of the next sign.
func TestDecomposeSignBoundaries(t *testing.T) {
	wantNames := []string{
		"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
	}

	for i := 0; i < 12; i++ {
		b, err := Decompose(float64(i * 30))
		if err != nil {
			t.Fatalf("Decompose(%d): %v", i*30, err)
		}
		if b.SignIndex != i+1 {
			t.Errorf("Decompose(%d) sign index = %d, want %d", i*30, b.SignIndex, i+1)
		}
		if b.SignName != wantNames[i] {
			t.Errorf("Decompose(%d) sign name = %q, want %q", i*30, b.SignName, wantNames[i])
		}
		if b.Degrees != 0 || b.Minutes != 0 || b.Seconds != 0 {
			t.Errorf("Decompose(%d) = %d°%d'%v\", want 0°0'0\"", i*30, b.Degrees, b.Minutes, b.Seconds)
		}
	}
}

func TestDecomposeReconstruction(t *testing.T) {
	for deg := -400.0; deg < 800; deg += 0.777 {
		b, err := Decompose(deg)
		if err != nil {
			t.Fatalf("Decompose(%v): %v", deg, err)
		}

		n, err := Normalize(deg)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", deg, err)
		}

		rebuilt := float64(b.Degrees) + float64(b.Minutes)/60 + b.Seconds/3600
		within := math.Mod(n, 30)
		if math.Abs(rebuilt-within) > 0.01 {
			t.Errorf("Decompose(%v): reconstruction %v differs from %v by more than 0.01°",
				deg, rebuilt, within)
		}
	}
}

// Seconds that round to exactly 60.00 are reported as-is rather than carried
// into minutes. 29°59'60.00" and 30°0'0.00" denote the same angle, so the
// reconstruction property still holds.
func TestDecomposeSecondsNotCarried(t *testing.T) {
	// 29 + 59/60 + 59.9999/3600 degrees: seconds round to 60.00.
	angle := 29.0 + 59.0/60 + 59.9999/3600

	b, err := Decompose(angle)
	if err != nil {
		t.Fatalf("Decompose(%v): %v", angle, err)
	}

	if b.Degrees != 29 || b.Minutes != 59 {
		t.Fatalf("Decompose(%v) = %d°%d', want 29°59'", angle, b.Degrees, b.Minutes)
	}
	if b.Seconds != 60 {
		t.Fatalf("Decompose(%v) seconds = %v, want 60 (no carry)", angle, b.Seconds)
	}

	rebuilt := float64(b.Degrees) + float64(b.Minutes)/60 + b.Seconds/3600
	if math.Abs(rebuilt-angle) > 0.01 {
		t.Errorf("reconstruction %v differs from %v by more than 0.01°", rebuilt, angle)
	}
}

func TestOppositePoint(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10, 190},
		{190, 10},
		{0, 180},
		{350, 170},
		{-10, 170},
	}

	for _, c := range cases {
		got, err := OppositePoint(c.in)
		if err != nil {
			t.Fatalf("OppositePoint(%v): %v", c.in, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("OppositePoint(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestOppositePointSymmetry(t *testing.T) {
	for _, x := range []float64{-123.4, 0, 10, 179.999, 180, 355.5, 900} {
		once, err := OppositePoint(x)
		if err != nil {
			t.Fatalf("OppositePoint(%v): %v", x, err)
		}
		twice, err := OppositePoint(once)
		if err != nil {
			t.Fatalf("OppositePoint(%v): %v", once, err)
		}

		n, err := Normalize(x)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", x, err)
		}
		if math.Abs(twice-n) > 1e-9 {
			t.Errorf("OppositePoint(OppositePoint(%v)) = %v, want %v", x, twice, n)
		}
	}
}
