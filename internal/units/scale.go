package units

import (
	"errors"
	"fmt"
)

// ScaleChain converts between units that sit on a single ordinal axis, finest
// first, with one factor per adjacent pair. factors[i] is how many units[i]
// make one units[i+1].
type ScaleChain struct {
	units   []Unit
	factors []float64
	index   map[Unit]int
}

// NewScaleChain validates that there is exactly one positive factor between
// each pair of neighbouring units.
func NewScaleChain(units []Unit, factors []float64) (*ScaleChain, error) {
	if len(units) < 2 {
		return nil, errors.New("scale chain needs at least two units")
	}
	if len(factors) != len(units)-1 {
		return nil, fmt.Errorf("scale chain: %d units need %d factors, got %d",
			len(units), len(units)-1, len(factors))
	}
	index := make(map[Unit]int, len(units))
	for i, u := range units {
		if _, dup := index[u]; dup {
			return nil, fmt.Errorf("scale chain: duplicate unit %s", u)
		}
		index[u] = i
	}
	for i, f := range factors {
		if f <= 0 {
			return nil, fmt.Errorf("scale chain: factor %d (%s→%s) must be positive", i, units[i], units[i+1])
		}
	}
	return &ScaleChain{
		units:   append([]Unit(nil), units...),
		factors: append([]float64(nil), factors...),
		index:   index,
	}, nil
}

// Index returns the ordinal position of u, 0 being the finest.
func (c *ScaleChain) Index(u Unit) (int, bool) {
	i, ok := c.index[u]
	return i, ok
}

// Units returns the chain members, finest first.
func (c *ScaleChain) Units() []Unit {
	return append([]Unit(nil), c.units...)
}

// Rescale re-expresses v, measured at position from, at position to.
// Moving to a coarser unit divides by the intervening factors; moving to a
// finer unit multiplies by them. Positions outside the chain are an error.
func (c *ScaleChain) Rescale(v float64, from, to int) (float64, error) {
	if from < 0 || from >= len(c.units) || to < 0 || to >= len(c.units) {
		return 0, fmt.Errorf("rescale %d to %d: position outside chain of %d units", from, to, len(c.units))
	}
	switch {
	case to > from:
		for _, f := range c.factors[from:to] {
			v /= f
		}
	case to < from:
		for _, f := range c.factors[to:from] {
			v *= f
		}
	}
	return v, nil
}

// Convert rescales v between two members of the chain.
func (c *ScaleChain) Convert(v float64, from, to Unit) (float64, error) {
	i, ok := c.index[from]
	if !ok {
		return 0, &UnsupportedConversionError{From: from, To: to}
	}
	j, ok := c.index[to]
	if !ok {
		return 0, &UnsupportedConversionError{From: from, To: to}
	}
	return c.Rescale(v, i, j)
}

// TimeChain is the time family: ms → s → min → hr → day → week → month → year.
// A month is the mean Gregorian month of 30.436875 days.
var TimeChain = mustScaleChain(
	[]Unit{Millisecond, Second, Minute, Hour, Day, Week, Month, Year},
	[]float64{1000, 60, 60, 24, 7, 30.436875 / 7, 12},
)

func mustScaleChain(units []Unit, factors []float64) *ScaleChain {
	c, err := NewScaleChain(units, factors)
	if err != nil {
		panic(err)
	}
	return c
}
