package units

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/unit"
)

// Value is a number tagged with its unit and display rule. The zero Value
// has no unit and converts to nothing.
type Value struct {
	value  float64
	unit   Unit
	format Format
}

// New tags v with u and applies u's canonical display rule.
func New(v float64, u Unit) Value {
	return Value{value: v, unit: u, format: u.Format()}
}

// Parse builds a Value from a raw number and a unit tag.
func Parse(v float64, tag string) (Value, error) {
	u, err := ParseUnit(tag)
	if err != nil {
		return Value{}, err
	}
	return New(v, u), nil
}

// Value returns the stored number.
func (v Value) Value() float64 { return v.value }

// Raw is identical to Value; compound arithmetic always works on raw numbers.
func (v Value) Raw() float64 { return v.value }

func (v Value) Unit() Unit { return v.unit }

func (v Value) Family() Family { return v.unit.Family() }

// Rule returns the display rule in effect.
func (v Value) Rule() Format { return v.format }

// IsZero reports whether v is the zero Value (no unit attached).
func (v Value) IsZero() bool { return v.unit == "" }

// WithFormat returns a copy of v rendered with f.
func (v Value) WithFormat(f Format) Value {
	v.format = f
	return v
}

// Format renders the number using the display rule, without a symbol.
func (v Value) Format() string {
	return fmt.Sprintf("%*.*f", v.format.Width, v.format.Precision, v.value)
}

// String renders the number followed by the unit symbol, e.g. "72.5°F".
func (v Value) String() string {
	return v.Format() + v.unit.Symbol()
}

// To converts v into target, returning a new Value with target's canonical
// display rule.
func (v Value) To(target Unit) (Value, error) {
	converted, err := Convert(v.value, v.unit, target)
	if err != nil {
		return Value{}, err
	}
	return New(converted, target), nil
}

// MustTo is To for conversions that are known to be valid. It panics on an
// unsupported conversion.
func (v Value) MustTo(target Unit) Value {
	out, err := v.To(target)
	if err != nil {
		panic(err)
	}
	return out
}

// SI returns v in coherent SI units as a gonum dimensional value.
func (v Value) SI() *unit.Unit {
	return toSI(v.value, v.unit)
}

// Localized converts v to the preferred unit for its family. Without a
// preference the value is returned unchanged.
func (v Value) Localized(p Preferences) (Value, error) {
	target, ok := p.Scalars[v.Family()]
	if !ok || target == v.unit {
		return v, nil
	}
	out, err := v.To(target)
	if err != nil {
		return v, &LocalizationError{Kind: string(v.Family()), Name: string(target), Err: err}
	}
	return out, nil
}

type valueJSON struct {
	Value   float64 `json:"value"`
	Unit    Unit    `json:"unit"`
	Display string  `json:"display"`
}

// MarshalJSON writes the number, its unit tag and the formatted display
// string. Precision is kept in value; display is what a dashboard shows.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Value: v.value, Unit: v.unit, Display: v.String()})
}

// UnmarshalJSON restores a Value written by MarshalJSON. The display rule is
// reset to the unit's canonical one.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Unit.Valid() {
		return &UnknownUnitError{Identifier: string(in.Unit)}
	}
	*v = New(in.Value, in.Unit)
	return nil
}

