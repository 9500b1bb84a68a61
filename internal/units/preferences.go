package units

// Pair names the preferred numerator and denominator units of a compound
// kind, e.g. {"mile", "hour"} for wind. Names go through LookupName.
type Pair struct {
	Numerator   string
	Denominator string
}

// Preferences selects display units. It is always passed explicitly to the
// localizing accessors.
type Preferences struct {
	Scalars   map[Family]Unit
	Compounds map[string]Pair
}

// Compound kinds understood by the registry's special namespace.
const (
	KindWind              = "wind"
	KindPrecipitation     = "precipitation"
	KindPrecipitationRate = "precipitationRate"
	KindAirDensity        = "airDensity"
)

// ImperialPreferences is the US dashboard default.
func ImperialPreferences() Preferences {
	return Preferences{
		Scalars: map[Family]Unit{
			Temperature: Fahrenheit,
			Pressure:    InHg,
			Volume:      Gallon,
			Mass:        Pound,
		},
		Compounds: map[string]Pair{
			KindWind:              {"mile", "hour"},
			KindPrecipitation:     {"inch", "hour"},
			KindPrecipitationRate: {"inch", "hour"},
			KindAirDensity:        {"kilogram", "cubic meter"},
		},
	}
}

// MetricPreferences is the default everywhere else.
func MetricPreferences() Preferences {
	return Preferences{
		Scalars: map[Family]Unit{
			Temperature: Celsius,
			Pressure:    Hectopascal,
			Volume:      Liter,
			Mass:        Kilogram,
		},
		Compounds: map[string]Pair{
			KindWind:              {"kilometer", "hour"},
			KindPrecipitation:     {"millimeter", "hour"},
			KindPrecipitationRate: {"millimeter", "hour"},
			KindAirDensity:        {"kilogram", "cubic meter"},
		},
	}
}

// Clone returns a deep copy so callers can apply overrides to a preset.
func (p Preferences) Clone() Preferences {
	out := Preferences{
		Scalars:   make(map[Family]Unit, len(p.Scalars)),
		Compounds: make(map[string]Pair, len(p.Compounds)),
	}
	for k, v := range p.Scalars {
		out.Scalars[k] = v
	}
	for k, v := range p.Compounds {
		out.Compounds[k] = v
	}
	return out
}
