package observation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

// Field is one resolved measurement. Exactly one of the value members is
// meaningful, selected by Kind.
type Field struct {
	Name  string
	Title string
	Kind  registry.Kind

	Scalar   units.Value
	Compound units.Compound
	Bool     bool
	Time     time.Time
	Location *time.Location
}

// Value returns the member selected by Kind.
func (f Field) Value() any {
	switch f.Kind {
	case registry.KindNumeric:
		return f.Scalar
	case registry.KindCompound:
		return f.Compound
	case registry.KindBoolean:
		return f.Bool
	case registry.KindDatetime:
		return f.Time
	case registry.KindTimezone:
		if f.Location == nil {
			return nil
		}
		return f.Location.String()
	}
	return nil
}

// Display renders the field for humans.
func (f Field) Display() string {
	switch f.Kind {
	case registry.KindNumeric:
		return f.Scalar.String()
	case registry.KindCompound:
		return f.Compound.String()
	case registry.KindDatetime:
		return f.Time.Format(time.RFC3339)
	}
	return fmt.Sprint(f.Value())
}

// Localized converts numeric and compound fields to the preferred units.
// On failure the original field is returned with the error.
func (f Field) Localized(p units.Preferences) (Field, error) {
	switch f.Kind {
	case registry.KindNumeric:
		v, err := f.Scalar.Localized(p)
		f.Scalar = v
		return f, err
	case registry.KindCompound:
		c, err := f.Compound.Localized(p)
		f.Compound = c
		return f, err
	}
	return f, nil
}

type fieldJSON struct {
	Name  string        `json:"name"`
	Title string        `json:"title,omitempty"`
	Kind  registry.Kind `json:"kind"`
	Value any           `json:"value"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{Name: f.Name, Title: f.Title, Kind: f.Kind, Value: f.Value()})
}
