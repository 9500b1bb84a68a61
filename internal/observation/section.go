package observation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosimple/slug"

	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

// Section is an ordered, immutable group of fields sharing a path prefix.
type Section struct {
	name    string
	fields  map[string]Field
	order   []string
	skipped []string
}

// NewSection resolves specs against payload. A spec whose sourceKey is
// absent falls back to its default, or is skipped and reported by Skipped.
// Fields whose unit cannot be resolved or whose raw value cannot be built
// are left out and their errors are joined into the returned error; the
// section holds every field that did resolve.
func NewSection(name string, specs []FieldSpec, payload Payload, reg *registry.Registry, logger *slog.Logger) (*Section, error) {
	s := &Section{
		name:   slug.Make(name),
		fields: make(map[string]Field, len(specs)),
	}

	var errs []error
	for _, spec := range specs {
		fieldName := spec.FieldName()
		if fieldName == "" {
			fieldName = spec.Path
		}

		raw, ok := payload.Lookup(spec.SourceKey)
		if !ok || raw == nil {
			if spec.Default == nil {
				logger.Debug("source key missing, skipping field",
					"section", s.name, "field", fieldName, "source_key", spec.SourceKey)
				s.skipped = append(s.skipped, fieldName)
				continue
			}
			raw = spec.Default
		}

		f, err := buildField(spec, fieldName, raw, reg)
		if err != nil {
			logger.Warn("field not resolved",
				"section", s.name, "field", fieldName, "source_key", spec.SourceKey, "error", err)
			errs = append(errs, fmt.Errorf("%s.%s: %w", s.name, fieldName, err))
			continue
		}
		s.add(f)
	}
	return s, errors.Join(errs...)
}

func (s *Section) add(f Field) {
	if _, ok := s.fields[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
}

func buildField(spec FieldSpec, name string, raw any, reg *registry.Registry) (Field, error) {
	c, err := resolve(spec, reg)
	if err != nil {
		return Field{}, err
	}

	f := Field{Name: name, Title: spec.Title, Kind: c.Kind}
	switch c.Kind {
	case registry.KindNumeric:
		v, err := registry.ToFloat(raw)
		if err != nil {
			return Field{}, err
		}
		f.Scalar, err = c.Numeric(v)
		return f, err
	case registry.KindCompound:
		v, err := registry.ToFloat(raw)
		if err != nil {
			return Field{}, err
		}
		f.Compound, err = c.Compound(spec.Type, v, 1)
		return f, err
	case registry.KindBoolean:
		f.Bool, err = c.Boolean(raw)
		return f, err
	case registry.KindDatetime:
		loc := time.UTC
		if tz := spec.Kwargs["timezone"]; tz != "" {
			if loc, err = time.LoadLocation(tz); err != nil {
				return Field{}, fmt.Errorf("load timezone %q: %w", tz, err)
			}
		}
		f.Time, err = c.Datetime(raw, loc)
		return f, err
	case registry.KindTimezone:
		f.Location, err = c.Timezone(raw)
		return f, err
	}
	return Field{}, fmt.Errorf("unsupported constructor kind %s", c.Kind)
}

// resolve maps a field's source unit onto a constructor. Pairs become bound
// compound constructors; a fused compound identifier picks up the special
// kind named by Type; numeric units must belong to the family named by Type
// when Type names one, and cannot stand in for a special compound.
func resolve(spec FieldSpec, reg *registry.Registry) (registry.Constructor, error) {
	if spec.SourceUnit.IsPair() {
		return reg.ResolvePair(spec.Type, spec.SourceUnit.Numerator, spec.SourceUnit.Denominator)
	}

	c, err := reg.Resolve(spec.SourceUnit.Unit)
	if err != nil {
		return registry.Constructor{}, err
	}

	switch c.Kind {
	case registry.KindCompound:
		if c.Special == nil && reg.IsSpecial(spec.Type) {
			special, err := reg.Special(spec.Type)
			if err != nil {
				return registry.Constructor{}, err
			}
			c.Special = &special
			return c.Bind(c.Numerator, c.Denominator)
		}
	case registry.KindNumeric:
		if reg.IsSpecial(spec.Type) {
			return registry.Constructor{}, fmt.Errorf("unit %s is not a compound unit for %s: %w",
				c.Unit, spec.Type, units.ErrUnsupportedConversion)
		}
		if fam := units.Family(spec.Type); len(fam.Members()) > 0 && c.Unit.Family() != fam {
			return registry.Constructor{}, fmt.Errorf("unit %s is not a %s unit: %w",
				c.Unit, fam, units.ErrUnsupportedConversion)
		}
	}
	return c, nil
}

func (s *Section) Name() string { return s.name }

// Get returns the named field.
func (s *Section) Get(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Names lists field names in schema order.
func (s *Section) Names() []string {
	return append([]string(nil), s.order...)
}

// Fields lists fields in schema order.
func (s *Section) Fields() []Field {
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

func (s *Section) Len() int { return len(s.order) }

// Skipped lists fields whose source key was absent from the payload.
func (s *Section) Skipped() []string {
	return append([]string(nil), s.skipped...)
}

// Localized returns a copy with every field converted to the preferred
// units. Fields that cannot be localized keep their original units and
// their errors are joined.
func (s *Section) Localized(p units.Preferences) (*Section, error) {
	out := &Section{
		name:    s.name,
		fields:  make(map[string]Field, len(s.fields)),
		order:   append([]string(nil), s.order...),
		skipped: append([]string(nil), s.skipped...),
	}

	var errs []error
	for _, name := range s.order {
		f, err := s.fields[name].Localized(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", s.name, name, err))
		}
		out.fields[name] = f
	}
	return out, errors.Join(errs...)
}

type sectionJSON struct {
	Name    string   `json:"name"`
	Fields  []Field  `json:"fields"`
	Skipped []string `json:"skipped,omitempty"`
}

func (s *Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(sectionJSON{Name: s.name, Fields: s.Fields(), Skipped: s.skipped})
}
