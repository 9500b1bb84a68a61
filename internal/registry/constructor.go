package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/levity-measure/internal/units"
)

// Datetime source formats understood by Constructor.Datetime.
const (
	formatEpoch    = "epoch"
	formatEpochMs  = "epochMs"
	formatDatetime = "datetime"
	formatDate     = "date"
)

// Constructor turns a raw payload value into a typed measurement. Which
// build method applies depends on Kind; calling another returns an error.
type Constructor struct {
	Identifier string
	Kind       Kind

	// Unit is set for KindNumeric.
	Unit units.Unit
	// Numerator and Denominator are set for KindCompound once bound to
	// concrete units.
	Numerator   units.Unit
	Denominator units.Unit
	// Special is set for compound kinds from the special namespace.
	Special *CompoundSpec
}

func (c Constructor) expect(k Kind) error {
	if c.Kind != k {
		return fmt.Errorf("constructor %q is %s, not %s", c.Identifier, c.Kind, k)
	}
	return nil
}

// Numeric builds a scalar value in the constructor's unit.
func (c Constructor) Numeric(v float64) (units.Value, error) {
	if err := c.expect(KindNumeric); err != nil {
		return units.Value{}, err
	}
	return units.New(v, c.Unit), nil
}

// Boolean accepts bools, numbers (non-zero is true) and strconv.ParseBool
// spellings.
func (c Constructor) Boolean(raw any) (bool, error) {
	if err := c.expect(KindBoolean); err != nil {
		return false, err
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("parse bool %q: %w", v, err)
		}
		return b, nil
	}
	f, err := ToFloat(raw)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

// Datetime parses raw according to the constructor's identifier. Epoch
// forms are unix seconds or milliseconds; datetime is RFC 3339 or a local
// "2006-01-02T15:04:05" in loc; date is "2006-01-02" in loc. The result is
// expressed in loc, or UTC when loc is nil.
func (c Constructor) Datetime(raw any, loc *time.Location) (time.Time, error) {
	if err := c.expect(KindDatetime); err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	switch c.Identifier {
	case formatEpoch, formatEpochMs:
		f, err := ToFloat(raw)
		if err != nil {
			return time.Time{}, err
		}
		if c.Identifier == formatEpochMs {
			return time.UnixMilli(int64(math.Round(f))).In(loc), nil
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).In(loc), nil
	case formatDatetime:
		s, ok := raw.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("datetime: expected string, got %T", raw)
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.In(loc), nil
		}
		t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
		}
		return t, nil
	case formatDate:
		s, ok := raw.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("date: expected string, got %T", raw)
		}
		t, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported datetime format %q", c.Identifier)
}

// Timezone loads an IANA zone name.
func (c Constructor) Timezone(raw any) (*time.Location, error) {
	if err := c.expect(KindTimezone); err != nil {
		return nil, err
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("timezone: expected string, got %T", raw)
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s, err)
	}
	return loc, nil
}

// Compound builds num/den in the bound units. A payload carrying a single
// ratio passes den = 1.
func (c Constructor) Compound(kind string, num, den float64) (units.Compound, error) {
	if err := c.expect(KindCompound); err != nil {
		return units.Compound{}, err
	}
	if c.Numerator == "" || c.Denominator == "" {
		return units.Compound{}, fmt.Errorf("constructor %q has no unit pair", c.Identifier)
	}
	if kind == "" && c.Special != nil {
		kind = c.Special.Name
	}
	out, err := units.NewCompound(kind, units.New(num, c.Numerator), units.New(den, c.Denominator))
	if err != nil {
		return units.Compound{}, err
	}
	if c.Special != nil {
		if err := c.Special.Check(out); err != nil {
			return units.Compound{}, err
		}
	}
	return out, nil
}

// Bind returns a copy of a compound constructor with a concrete unit pair.
// Special constructors reject pairs from the wrong families.
func (c Constructor) Bind(num, den units.Unit) (Constructor, error) {
	if err := c.expect(KindCompound); err != nil {
		return Constructor{}, err
	}
	if c.Special != nil {
		if err := c.Special.CheckUnits(num, den); err != nil {
			return Constructor{}, err
		}
	}
	c.Numerator, c.Denominator = num, den
	return c, nil
}

// ToFloat coerces a decoded JSON value to float64.
func ToFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("parse number %q: %w", v, err)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("expected number, got null")
	}
	return 0, fmt.Errorf("expected number, got %T", raw)
}
