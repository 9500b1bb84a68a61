package units

import (
	"encoding/json"
	"fmt"
)

// Measurement is implemented by Value and Compound.
type Measurement interface {
	fmt.Stringer
	json.Marshaler
	Format() string
}

var (
	_ Measurement = Value{}
	_ Measurement = Compound{}
)

// Measure tags v with a scalar tag or a compound identifier such as "m/s"
// or "mph". Compound identifiers produce a Compound over a denominator of 1.
func Measure(v float64, id string) (Measurement, error) {
	if u, err := ParseUnit(id); err == nil {
		return New(v, u), nil
	}
	num, den, err := ParseCompoundUnit(id)
	if err != nil {
		return nil, err
	}
	return NewCompound("", New(v, num), New(1, den))
}

// ConvertIdentifier converts v between two identifiers accepted by Measure.
// Scalars convert to scalars and compounds to compounds; mixing the two is an
// unsupported conversion.
func ConvertIdentifier(v float64, from, to string) (Measurement, error) {
	m, err := Measure(v, from)
	if err != nil {
		return nil, err
	}
	switch m := m.(type) {
	case Value:
		target, err := ParseUnit(to)
		if err != nil {
			if _, _, cerr := ParseCompoundUnit(to); cerr == nil {
				return nil, &UnsupportedConversionError{From: m.Unit(), To: Unit(to)}
			}
			return nil, err
		}
		return m.To(target)
	case Compound:
		num, den, err := ParseCompoundUnit(to)
		if err != nil {
			if _, perr := ParseUnit(to); perr == nil {
				return nil, &UnsupportedConversionError{From: Unit(from), To: Unit(to)}
			}
			return nil, err
		}
		return m.To(num, den)
	}
	return nil, &UnknownUnitError{Identifier: from}
}
