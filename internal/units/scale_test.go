package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScaleChain(t *testing.T) {
	tests := []struct {
		name    string
		units   []Unit
		factors []float64
		errMsg  string
	}{
		{"valid", []Unit{Millisecond, Second, Minute}, []float64{1000, 60}, ""},
		{"too few factors", []Unit{Millisecond, Second, Minute}, []float64{1000}, "need 2 factors"},
		{"too many factors", []Unit{Millisecond, Second}, []float64{1000, 60}, "need 1 factors"},
		{"single unit", []Unit{Second}, nil, "at least two"},
		{"zero factor", []Unit{Second, Minute}, []float64{0}, "must be positive"},
		{"negative factor", []Unit{Second, Minute}, []float64{-60}, "must be positive"},
		{"duplicate unit", []Unit{Second, Second}, []float64{1}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewScaleChain(tt.units, tt.factors)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.units, c.Units())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestScaleChain_Direction(t *testing.T) {
	ms, _ := TimeChain.Index(Millisecond)
	hr, _ := TimeChain.Index(Hour)

	tests := []struct {
		name     string
		v        float64
		from, to int
		expected float64
	}{
		{"coarser divides", 3600000, ms, hr, 1},
		{"finer multiplies", 1, hr, ms, 3600000},
		{"same index is unchanged", 42.5, hr, hr, 42.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeChain.Rescale(tt.v, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScaleChain_RescaleOutsideChain(t *testing.T) {
	n := len(TimeChain.Units())
	tests := []struct {
		name     string
		from, to int
	}{
		{"target past end", 0, 99},
		{"target at length", 0, n},
		{"negative source", -1, 2},
		{"source past end", n, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := TimeChain.Rescale(1, tt.from, tt.to)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "outside chain")
			})
		})
	}
}

func TestScaleChain_Monotonic(t *testing.T) {
	// 1 day, 1 hour, 1 minute, 1 second in milliseconds.
	const duration = 90061000.0

	prev := duration
	for _, u := range TimeChain.Units()[1:] {
		v, err := Convert(duration, Millisecond, u)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, prev, "converting to %s should not grow", u)
		assert.Greater(t, v, 0.0)
		prev = v
	}
}

func TestScaleChain_TimeValues(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		from, to Unit
		expected float64
	}{
		{"seconds to minutes", 90, Second, Minute, 1.5},
		{"days to hours", 2, Day, Hour, 48},
		{"week to days", 1, Week, Day, 7},
		{"year to months", 1, Year, Month, 12},
		{"month to days", 1, Month, Day, 30.436875},
		{"minutes to ms", 1, Minute, Millisecond, 60000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.v, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestScaleChain_ConvertOutsideChain(t *testing.T) {
	_, err := TimeChain.Convert(1, Second, Meter)
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	_, err = TimeChain.Convert(1, Meter, Second)
	assert.ErrorIs(t, err, ErrUnsupportedConversion)
}

func TestScaleChain_UnitsIsCopy(t *testing.T) {
	u := TimeChain.Units()
	u[0] = Meter
	assert.Equal(t, Millisecond, TimeChain.Units()[0])
}
