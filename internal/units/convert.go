package units

import (
	"gonum.org/v1/gonum/unit"
)

// Convert re-expresses v from one unit to another of the same family.
func Convert(v float64, from, to Unit) (float64, error) {
	src, ok := definitions[from]
	if !ok {
		return 0, &UnsupportedConversionError{From: from, To: to}
	}
	dst, ok := definitions[to]
	if !ok || src.family != dst.family {
		return 0, &UnsupportedConversionError{From: from, To: to}
	}
	if from == to {
		return v, nil
	}
	if src.family == Time {
		return TimeChain.Convert(v, from, to)
	}
	return dst.fromBase(src.toBase(v)), nil
}

// siInfo describes how a family maps onto gonum's SI dimensions: the unit
// whose numeric value, times scale, is the coherent SI value.
type siInfo struct {
	unit  Unit
	scale float64
	dims  unit.Dimensions
}

var siFamilies = map[Family]siInfo{
	Temperature: {unit: Kelvin, scale: 1, dims: unit.Dimensions{unit.TemperatureDim: 1}},
	Pressure: {unit: Hectopascal, scale: 100, dims: unit.Dimensions{
		unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -2,
	}},
	Length: {unit: Meter, scale: 1, dims: unit.Dimensions{unit.LengthDim: 1}},
	Time:   {unit: Second, scale: 1, dims: unit.Dimensions{unit.TimeDim: 1}},
	Volume: {unit: CubicMeter, scale: 1, dims: unit.Dimensions{unit.LengthDim: 3}},
	Mass:   {unit: Kilogram, scale: 1, dims: unit.Dimensions{unit.MassDim: 1}},
	Voltage: {unit: Volt, scale: 1, dims: unit.Dimensions{
		unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3, unit.CurrentDim: -1,
	}},
	Current: {unit: Amp, scale: 1, dims: unit.Dimensions{unit.CurrentDim: 1}},
	Power: {unit: Watt, scale: 1, dims: unit.Dimensions{
		unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -3,
	}},
	Angle:      {unit: Radian, scale: 1, dims: unit.Dimensions{unit.AngleDim: 1}},
	Percentage: {unit: Percent, scale: 0.01, dims: unit.Dimensions{}},
	Illuminance: {unit: Lux, scale: 1, dims: unit.Dimensions{
		unit.LuminousIntensityDim: 1, unit.LengthDim: -2,
	}},
	Irradiance: {unit: WattsPerSquareMeter, scale: 1, dims: unit.Dimensions{
		unit.MassDim: 1, unit.TimeDim: -3,
	}},
	Index: {unit: UVIndex, scale: 1, dims: unit.Dimensions{}},
}

// Dimensions returns the SI dimensions of the family.
func (f Family) Dimensions() unit.Dimensions {
	out := unit.Dimensions{}
	for k, v := range siFamilies[f].dims {
		out[k] = v
	}
	return out
}

// toSI expresses v (in u) as a gonum unit in coherent SI units.
func toSI(v float64, u Unit) *unit.Unit {
	info, ok := siFamilies[u.Family()]
	if !ok {
		return unit.New(v, unit.Dimensions{})
	}
	base, err := Convert(v, u, info.unit)
	if err != nil {
		return unit.New(v, unit.Dimensions{})
	}
	return unit.New(base*info.scale, info.dims)
}
