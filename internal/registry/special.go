package registry

import (
	"fmt"

	"gonum.org/v1/gonum/unit"

	"github.com/couchcryptid/levity-measure/internal/units"
)

// SpecialNamespace prefixes compound kinds in Resolve, e.g. "special.wind".
const SpecialNamespace = "special"

// CompoundSpec describes a semantic compound kind by the families of its
// numerator and denominator rather than by concrete units.
type CompoundSpec struct {
	Name        string
	Numerator   units.Family
	Denominator units.Family
}

var specials = []CompoundSpec{
	{Name: units.KindWind, Numerator: units.Length, Denominator: units.Time},
	{Name: units.KindPrecipitation, Numerator: units.Length, Denominator: units.Time},
	{Name: units.KindPrecipitationRate, Numerator: units.Length, Denominator: units.Time},
	{Name: units.KindAirDensity, Numerator: units.Mass, Denominator: units.Volume},
}

// LookupSpecial returns the special compound kind called name. Unlike
// Registry.Special it needs no registry, so configuration can validate
// preferred units before one is built.
func LookupSpecial(name string) (CompoundSpec, bool) {
	for _, s := range specials {
		if s.Name == name {
			return s, true
		}
	}
	return CompoundSpec{}, false
}

// Dimensions returns the SI dimensions of the ratio, e.g. L·T⁻¹ for wind.
func (s CompoundSpec) Dimensions() unit.Dimensions {
	return s.si().Dimensions()
}

func (s CompoundSpec) si() *unit.Unit {
	return unit.New(1, s.Numerator.Dimensions()).Div(unit.New(1, s.Denominator.Dimensions()))
}

// CheckUnits reports whether num and den belong to the special's families.
func (s CompoundSpec) CheckUnits(num, den units.Unit) error {
	if num.Family() != s.Numerator || den.Family() != s.Denominator {
		return fmt.Errorf("%s expects %s/%s, got %s/%s: %w",
			s.Name, s.Numerator, s.Denominator, num, den, units.ErrUnsupportedConversion)
	}
	return nil
}

// Check verifies that c has the special's physical dimensions.
func (s CompoundSpec) Check(c units.Compound) error {
	if !unit.DimensionsMatch(c.SI(), s.si()) {
		return fmt.Errorf("%s: %s has dimensions %v, want %v: %w",
			s.Name, c.Unit(), c.SI().Dimensions(), s.Dimensions(), units.ErrUnsupportedConversion)
	}
	return nil
}
