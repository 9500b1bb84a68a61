package units

import (
	"encoding/json"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/unit"
)

// Compound is a ratio of two scalar values, such as wind speed (length over
// time). Both sides are kept so localization can convert each independently.
type Compound struct {
	kind  string
	num   Value
	den   Value
	value float64
	unit  string
}

// fusedNames are display names that replace the slash form.
var fusedNames = map[[2]Unit]string{
	{Mile, Hour}:         "mph",
	{Kilometer, Hour}:    "kph",
	{NauticalMile, Hour}: "kn",
	{Foot, Second}:       "fps",
}

// compoundAliases are additional spellings accepted by ParseCompoundUnit.
var compoundAliases = map[string][2]Unit{
	"km/h": {Kilometer, Hour},
	"kmh":  {Kilometer, Hour},
	"kt":   {NauticalMile, Hour},
}

// NewCompound builds num/den. kind is the semantic name used to look up
// display preferences and may be empty for ad-hoc ratios.
func NewCompound(kind string, num, den Value) (Compound, error) {
	if den.Raw() == 0 {
		return Compound{}, fmt.Errorf("%s %s/%s: %w", kind, num.Unit(), den.Unit(), ErrZeroDenominator)
	}
	return Compound{
		kind:  kind,
		num:   num,
		den:   den,
		value: num.Raw() / den.Raw(),
		unit:  CompoundUnit(num.Unit(), den.Unit()),
	}, nil
}

// CompoundUnit returns the display unit for a numerator/denominator pair:
// the fused name when one exists, otherwise "num/den".
func CompoundUnit(num, den Unit) string {
	if name, ok := fusedNames[[2]Unit{num, den}]; ok {
		return name
	}
	return string(num) + "/" + string(den)
}

// ParseCompoundUnit splits a fused or slash-separated compound unit into its
// numerator and denominator tags.
func ParseCompoundUnit(s string) (Unit, Unit, error) {
	if pair, ok := compoundAliases[s]; ok {
		return pair[0], pair[1], nil
	}
	for pair, name := range fusedNames {
		if name == s {
			return pair[0], pair[1], nil
		}
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return "", "", &UnknownUnitError{Identifier: s}
	}
	n, err := ParseUnit(num)
	if err != nil {
		return "", "", &UnknownUnitError{Identifier: s}
	}
	d, err := ParseUnit(den)
	if err != nil {
		return "", "", &UnknownUnitError{Identifier: s}
	}
	return n, d, nil
}

func (c Compound) Kind() string { return c.kind }

// Value is numerator.Raw() / denominator.Raw(), computed at construction.
func (c Compound) Value() float64 { return c.value }

func (c Compound) Numerator() Value { return c.num }

func (c Compound) Denominator() Value { return c.den }

// Unit is the display unit, e.g. "mph" or "mm/hr".
func (c Compound) Unit() string { return c.unit }

func (c Compound) IsZero() bool { return c.num.IsZero() && c.den.IsZero() }

// Format renders the ratio with the numerator's display rule.
func (c Compound) Format() string {
	f := c.num.Rule()
	return fmt.Sprintf("%*.*f", f.Width, f.Precision, c.value)
}

func (c Compound) String() string {
	return c.Format() + " " + c.unit
}

// To rebuilds the compound with numerator and denominator converted
// separately. The ratio is never scaled directly.
func (c Compound) To(num, den Unit) (Compound, error) {
	n, err := c.num.To(num)
	if err != nil {
		return Compound{}, err
	}
	d, err := c.den.To(den)
	if err != nil {
		return Compound{}, err
	}
	return NewCompound(c.kind, n, d)
}

// Localized converts to the pair configured for c's kind. On any failure it
// returns c unchanged together with a *LocalizationError.
func (c Compound) Localized(p Preferences) (Compound, error) {
	pair, ok := p.Compounds[c.kind]
	if !ok {
		return c, &LocalizationError{Kind: c.kind}
	}
	num, ok := LookupName(pair.Numerator)
	if !ok {
		return c, &LocalizationError{Kind: c.kind, Name: pair.Numerator}
	}
	den, ok := LookupName(pair.Denominator)
	if !ok {
		return c, &LocalizationError{Kind: c.kind, Name: pair.Denominator}
	}
	out, err := c.To(num, den)
	if err != nil {
		return c, &LocalizationError{Kind: c.kind, Name: pair.Numerator + "/" + pair.Denominator, Err: err}
	}
	return out, nil
}

// Per re-expresses the same rate over exactly one den, keeping the numerator
// unit. 5 m over 1 s becomes 18000 m over 1 hr.
func (c Compound) Per(den Unit) (Compound, error) {
	scale, err := Convert(1, den, c.den.Unit())
	if err != nil {
		return Compound{}, err
	}
	return NewCompound(c.kind, New(c.value*scale, c.num.Unit()), New(1, den))
}

// SI returns the ratio in coherent SI units with combined dimensions.
func (c Compound) SI() *unit.Unit {
	return c.num.SI().Div(c.den.SI())
}

type compoundJSON struct {
	Kind        string  `json:"kind,omitempty"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Display     string  `json:"display"`
	Numerator   Value   `json:"numerator"`
	Denominator Value   `json:"denominator"`
}

func (c Compound) MarshalJSON() ([]byte, error) {
	return json.Marshal(compoundJSON{
		Kind:        c.kind,
		Value:       c.value,
		Unit:        c.unit,
		Display:     c.String(),
		Numerator:   c.num,
		Denominator: c.den,
	})
}
