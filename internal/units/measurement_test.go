package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	m, err := Measure(21.5, "c")
	require.NoError(t, err)
	assert.Equal(t, New(21.5, Celsius), m)

	m, err = Measure(10, "m/s")
	require.NoError(t, err)
	c, ok := m.(Compound)
	require.True(t, ok)
	assert.Equal(t, "m/s", c.Unit())
	assert.Equal(t, 10.0, c.Value())

	_, err = Measure(1, "furlong/fortnight")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestConvertIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		want    float64
		unit    string
		wantErr error
	}{
		{name: "scalar", from: "c", to: "f", want: 212, unit: "f"},
		{name: "fused compound", from: "mph", to: "kph", want: 160.9344, unit: "kph"},
		{name: "slash compound", from: "mm/hr", to: "in/hr", want: 3.937007874015748, unit: "in/hr"},
		{name: "unknown target", from: "c", to: "nope", wantErr: ErrUnknownUnit},
		{name: "scalar to compound", from: "m", to: "m/s", wantErr: ErrUnsupportedConversion},
		{name: "compound to scalar", from: "m/s", to: "m", wantErr: ErrUnsupportedConversion},
		{name: "cross family", from: "c", to: "hPa", wantErr: ErrUnsupportedConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := 100.0
			got, err := ConvertIdentifier(in, tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			switch g := got.(type) {
			case Value:
				assert.InDelta(t, tt.want, g.Value(), 1e-9)
				assert.Equal(t, tt.unit, string(g.Unit()))
			case Compound:
				assert.InDelta(t, tt.want, g.Value(), 1e-9)
				assert.Equal(t, tt.unit, g.Unit())
			default:
				t.Fatalf("unexpected measurement %T", got)
			}
		})
	}
}
