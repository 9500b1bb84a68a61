package units

import (
	"sort"
	"strings"
)

// Family groups units that measure the same physical quantity.
type Family string

const (
	Temperature Family = "temperature"
	Pressure    Family = "pressure"
	Length      Family = "length"
	Time        Family = "time"
	Volume      Family = "volume"
	Mass        Family = "mass"
	Voltage     Family = "voltage"
	Current     Family = "current"
	Power       Family = "power"
	Angle       Family = "angle"
	Percentage  Family = "percentage"
	Illuminance Family = "illuminance"
	Irradiance  Family = "irradiance"
	Index       Family = "index"
)

// Unit is a concrete unit tag as it appears in upstream schemas.
type Unit string

// Temperature.
const (
	Fahrenheit Unit = "f"
	Celsius    Unit = "c"
	Kelvin     Unit = "kelvin"
)

// Pressure. Millibar and Mbar are spellings of the hectopascal used by
// different providers.
const (
	Hectopascal Unit = "hPa"
	Millibar    Unit = "mb"
	Mbar        Unit = "mbar"
	Bar         Unit = "bar"
	MmHg        Unit = "mmHg"
	InHg        Unit = "inHg"
)

// Length.
const (
	Millimeter   Unit = "mm"
	Centimeter   Unit = "cm"
	Meter        Unit = "m"
	Kilometer    Unit = "km"
	Inch         Unit = "in"
	Foot         Unit = "ft"
	Yard         Unit = "yd"
	Mile         Unit = "mi"
	NauticalMile Unit = "nmi"
)

// Time, finest first.
const (
	Millisecond Unit = "ms"
	Second      Unit = "s"
	Minute      Unit = "min"
	Hour        Unit = "hr"
	Day         Unit = "day"
	Week        Unit = "week"
	Month       Unit = "month"
	Year        Unit = "year"
)

// Volume.
const (
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	CubicMeter Unit = "m3"
	Gallon     Unit = "gal"
	FluidOunce Unit = "floz"
)

// Mass.
const (
	Gram     Unit = "g"
	Kilogram Unit = "kg"
	Ounce    Unit = "oz"
	Pound    Unit = "lb"
)

// Electrical.
const (
	Millivolt Unit = "mV"
	Volt      Unit = "V"
	Milliamp  Unit = "mA"
	Amp       Unit = "A"
	Watt      Unit = "W"
	Kilowatt  Unit = "kW"
)

// Single-unit families.
const (
	Degree              Unit = "deg"
	Radian              Unit = "rad"
	Percent             Unit = "%"
	Lux                 Unit = "lux"
	WattsPerSquareMeter Unit = "W/m2"
	UVIndex             Unit = "uvi"
)

// Format is the display rule for a unit: digits after the decimal point and
// minimum field width.
type Format struct {
	Precision int
	Width     int
}

// DefaultFormat renders one decimal place with a minimum width of 3.
var DefaultFormat = Format{Precision: 1, Width: 3}

type definition struct {
	family Family
	symbol string
	names  []string
	format Format

	// toBase and fromBase are nil for scale-chain families.
	toBase   func(float64) float64
	fromBase func(float64) float64
}

func linear(factor float64) (func(float64) float64, func(float64) float64) {
	return func(v float64) float64 { return v * factor },
		func(v float64) float64 { return v / factor }
}

func identity(v float64) float64 { return v }

func def(family Family, symbol string, format Format, factor float64, names ...string) definition {
	to, from := linear(factor)
	return definition{family: family, symbol: symbol, names: names, format: format, toBase: to, fromBase: from}
}

func chained(symbol string, format Format, names ...string) definition {
	return definition{family: Time, symbol: symbol, names: names, format: format}
}

var (
	tempFormat     = Format{Precision: 1, Width: 3}
	pressureFormat = Format{Precision: 1, Width: 6}
	wholeFormat    = Format{Precision: 0, Width: 2}
)

// definitions is the closed unit table. It is never mutated after init.
var definitions = map[Unit]definition{
	Celsius: {
		family: Temperature, symbol: "°C", format: tempFormat,
		names:  []string{"celsius", "centigrade"},
		toBase: identity, fromBase: identity,
	},
	Fahrenheit: {
		family: Temperature, symbol: "°F", format: tempFormat,
		names:    []string{"fahrenheit"},
		toBase:   func(f float64) float64 { return (f - 32) / 1.8 },
		fromBase: func(c float64) float64 { return c*1.8 + 32 },
	},
	Kelvin: {
		family: Temperature, symbol: "K", format: tempFormat,
		names:    []string{"k"},
		toBase:   func(k float64) float64 { return k - 273.15 },
		fromBase: func(c float64) float64 { return c + 273.15 },
	},

	Hectopascal: def(Pressure, "hPa", pressureFormat, 1, "hectopascal", "hectopascals"),
	Millibar:    def(Pressure, "mb", pressureFormat, 1, "millibar", "millibars"),
	Mbar:        def(Pressure, "mbar", pressureFormat, 1),
	Bar:         def(Pressure, "bar", Format{Precision: 3, Width: 5}, 1000, "bars"),
	MmHg: {
		family: Pressure, symbol: "mmHg", format: Format{Precision: 1, Width: 5},
		names:    []string{"millimeters of mercury"},
		toBase:   func(v float64) float64 { return v * 1.333224 },
		fromBase: func(hPa float64) float64 { return hPa * 0.7500615050434136 },
	},
	InHg: {
		family: Pressure, symbol: "inHg", format: Format{Precision: 2, Width: 5},
		names:    []string{"inches of mercury"},
		toBase:   func(v float64) float64 { return v / 0.02952998016471232 },
		fromBase: func(hPa float64) float64 { return hPa * 0.02952998016471232 },
	},

	Millimeter:   def(Length, "mm", Format{Precision: 0, Width: 3}, 0.001, "millimeter", "millimeters"),
	Centimeter:   def(Length, "cm", DefaultFormat, 0.01, "centimeter", "centimeters"),
	Meter:        def(Length, "m", DefaultFormat, 1, "meter", "meters", "metre", "metres"),
	Kilometer:    def(Length, "km", DefaultFormat, 1000, "kilometer", "kilometers"),
	Inch:         def(Length, "in", Format{Precision: 2, Width: 4}, 0.0254, "inch", "inches"),
	Foot:         def(Length, "ft", DefaultFormat, 0.3048, "foot", "feet"),
	Yard:         def(Length, "yd", DefaultFormat, 0.9144, "yard", "yards"),
	Mile:         def(Length, "mi", DefaultFormat, 1609.344, "mile", "miles"),
	NauticalMile: def(Length, "nmi", DefaultFormat, 1852, "nautical mile", "nautical miles"),

	Millisecond: chained("ms", wholeFormat, "millisecond", "milliseconds"),
	Second:      chained("s", wholeFormat, "second", "seconds", "sec"),
	Minute:      chained("min", wholeFormat, "minute", "minutes"),
	Hour:        chained("hr", DefaultFormat, "hour", "hours", "h"),
	Day:         chained("day", DefaultFormat, "days", "d"),
	Week:        chained("week", DefaultFormat, "weeks"),
	Month:       chained("month", DefaultFormat, "months"),
	Year:        chained("year", DefaultFormat, "years"),

	Milliliter: def(Volume, "ml", wholeFormat, 0.001, "milliliter", "milliliters"),
	Liter:      def(Volume, "l", DefaultFormat, 1, "liter", "liters", "litre"),
	CubicMeter: def(Volume, "m³", DefaultFormat, 1000, "cubic meter", "cubic meters"),
	Gallon:     def(Volume, "gal", DefaultFormat, 3.785411784, "gallon", "gallons"),
	FluidOunce: def(Volume, "fl oz", DefaultFormat, 0.0295735295625, "fluid ounce", "fluid ounces"),

	Gram:     def(Mass, "g", DefaultFormat, 0.001, "gram", "grams"),
	Kilogram: def(Mass, "kg", Format{Precision: 3, Width: 5}, 1, "kilogram", "kilograms"),
	Ounce:    def(Mass, "oz", DefaultFormat, 0.028349523125, "ounce", "ounces"),
	Pound:    def(Mass, "lb", DefaultFormat, 0.45359237, "pound", "pounds"),

	Millivolt: def(Voltage, "mV", wholeFormat, 0.001, "millivolt", "millivolts"),
	Volt:      def(Voltage, "V", Format{Precision: 2, Width: 4}, 1, "volt", "volts"),
	Milliamp:  def(Current, "mA", wholeFormat, 0.001, "milliamp", "milliamps"),
	Amp:       def(Current, "A", Format{Precision: 2, Width: 4}, 1, "amp", "amps", "ampere"),
	Watt:      def(Power, "W", wholeFormat, 1, "watt", "watts"),
	Kilowatt:  def(Power, "kW", Format{Precision: 2, Width: 4}, 1000, "kilowatt", "kilowatts"),

	Degree:              def(Angle, "°", wholeFormat, 0.017453292519943295, "degree", "degrees"),
	Radian:              def(Angle, "rad", Format{Precision: 3, Width: 5}, 1, "radian", "radians"),
	Percent:             def(Percentage, "%", wholeFormat, 1, "percent"),
	Lux:                 def(Illuminance, "lx", wholeFormat, 1),
	WattsPerSquareMeter: def(Irradiance, "W/m²", wholeFormat, 1, "watts per square meter"),
	UVIndex:             def(Index, "", wholeFormat, 1, "uv index"),
}

// nameIndex maps lowercased long names to units for LookupName. Tags are
// not indexed; they only match exactly.
var nameIndex = func() map[string]Unit {
	idx := make(map[string]Unit, len(definitions)*2)
	for u, d := range definitions {
		for _, n := range d.names {
			idx[strings.ToLower(n)] = u
		}
	}
	return idx
}()

// ParseUnit returns the unit for an exact, case-sensitive tag.
func ParseUnit(tag string) (Unit, error) {
	u := Unit(tag)
	if _, ok := definitions[u]; !ok {
		return "", &UnknownUnitError{Identifier: tag}
	}
	return u, nil
}

// LookupName resolves either a unit tag or a long name such as "mile" or
// "hour". Tags match exactly; long names are matched case-insensitively.
func LookupName(name string) (Unit, bool) {
	name = strings.TrimSpace(name)
	if _, ok := definitions[Unit(name)]; ok {
		return Unit(name), true
	}
	u, ok := nameIndex[strings.ToLower(name)]
	return u, ok
}

// Valid reports whether u is a known unit tag.
func (u Unit) Valid() bool {
	_, ok := definitions[u]
	return ok
}

// Family returns the family u belongs to, or "" for unknown tags.
func (u Unit) Family() Family {
	return definitions[u].family
}

// Symbol returns the display symbol, e.g. "°F" for Fahrenheit.
func (u Unit) Symbol() string {
	d, ok := definitions[u]
	if !ok {
		return string(u)
	}
	return d.symbol
}

// Format returns the canonical display rule for u.
func (u Unit) Format() Format {
	d, ok := definitions[u]
	if !ok {
		return DefaultFormat
	}
	return d.format
}

func (u Unit) String() string { return string(u) }

// All returns every unit tag, sorted.
func All() []Unit {
	out := make([]Unit, 0, len(definitions))
	for u := range definitions {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Members returns the units of a family, sorted by tag.
func (f Family) Members() []Unit {
	var out []Unit
	for _, u := range All() {
		if u.Family() == f {
			out = append(out, u)
		}
	}
	return out
}
