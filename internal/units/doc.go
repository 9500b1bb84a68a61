// Package units models typed weather measurements and the conversions between
// the units they are reported in.
//
// # Unit Vocabulary
//
// Unit tags are the identifiers upstream data sources put in their schemas.
// They are case-sensitive and form a de facto wire contract, so they must not
// be renamed:
//
//	temperature  f, c, kelvin
//	pressure     hPa, mb, mbar, bar, mmHg, inHg
//	length       mm, cm, m, km, in, ft, yd, mi, nmi
//	time         ms, s, min, hr, day, week, month, year
//	volume       ml, l, m3, gal, floz
//	mass         g, kg, oz, lb
//	electrical   mV, V, mA, A, W, kW
//	other        deg, rad, %, lux, W/m2, uvi
//
// Long names ("mile", "hour", "fahrenheit") are accepted by [LookupName] for
// display preferences, never on the wire.
//
// # Conversions
//
// Every unit belongs to exactly one [Family] and carries a pair of pure
// functions to and from its family's base unit. Converting A to B composes
// A's toBase with B's fromBase. Cross-family conversion fails with
// [ErrUnsupportedConversion].
//
// Reference formulas:
//
//	C → F     c * 1.8 + 32
//	C → K     c + 273.15
//	F → C     (f - 32) / 1.8
//	F → K     (f - 32) / 1.8 + 273.15
//	hPa → mmHg  hPa * 0.7500615050434136
//	mmHg → hPa  mmHg * 1.333224
//	hPa → inHg  hPa * 0.02952998016471232
//
// Time is a scale chain rather than a base-unit table: each unit is one step
// coarser than the previous, with one factor per step. See [ScaleChain].
//
// # Compound Measurements
//
// Wind speed and precipitation rate are ratios of two scalar values
// (length over time). A [Compound] keeps both sides so it can be localized by
// converting numerator and denominator independently and dividing again.
// Fused display names replace the slash form where one exists:
// mi/hr → mph, km/hr → kph, nmi/hr → kn, ft/s → fps.
//
// All values are immutable. Conversions return new values and never touch
// shared state, so they are safe to call from any goroutine.
package units
