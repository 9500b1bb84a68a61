package observation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/levity-measure/internal/registry"
)

// Schema maps raw payload keys of one data source onto dotted semantic
// paths. Field order follows the schema file.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

// FieldSpec describes one schema entry.
type FieldSpec struct {
	// Path is the dotted semantic path, e.g. "environment.temperature.temperature".
	Path       string            `yaml:"-"`
	Type       string            `yaml:"type"`
	SourceUnit SourceUnit        `yaml:"sourceUnit"`
	SourceKey  string            `yaml:"sourceKey"`
	Title      string            `yaml:"title"`
	Kwargs     map[string]string `yaml:"kwargs"`
	Default    any               `yaml:"default"`
}

// Section is the first path segment.
func (f FieldSpec) Section() string {
	head, _, _ := strings.Cut(f.Path, ".")
	return head
}

// FieldName is the path below the section.
func (f FieldSpec) FieldName() string {
	_, rest, _ := strings.Cut(f.Path, ".")
	return rest
}

// SourceUnit is either a single unit identifier or a numerator/denominator
// pair for compound fields.
type SourceUnit struct {
	Unit        string
	Numerator   string
	Denominator string
}

// IsPair reports whether the source unit is a compound pair.
func (s SourceUnit) IsPair() bool { return s.Numerator != "" }

func (s SourceUnit) IsZero() bool { return s.Unit == "" && !s.IsPair() }

func (s SourceUnit) String() string {
	if s.IsPair() {
		return s.Numerator + "/" + s.Denominator
	}
	return s.Unit
}

// UnmarshalYAML accepts "c" or [m, s].
func (s *SourceUnit) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Unit = node.Value
		return nil
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			return fmt.Errorf("line %d: sourceUnit pair must have exactly two units", node.Line)
		}
		s.Numerator, s.Denominator = pair[0], pair[1]
		return nil
	}
	return fmt.Errorf("line %d: sourceUnit must be a string or a two-element list", node.Line)
}

type schemaFile struct {
	Name   string    `yaml:"name"`
	Fields yaml.Node `yaml:"fields"`
}

// ParseSchema decodes and validates a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var raw schemaFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if raw.Fields.Kind != yaml.MappingNode {
		return nil, errors.New("parse schema: fields must be a mapping")
	}

	s := &Schema{Name: raw.Name}
	content := raw.Fields.Content
	for i := 0; i+1 < len(content); i += 2 {
		var spec FieldSpec
		if err := content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("parse schema field %q: %w", content[i].Value, err)
		}
		spec.Path = content[i].Value
		s.Fields = append(s.Fields, spec)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSchema reads a schema file from disk.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the structural rules: a name, unique paths with a section
// and field part, and a sourceKey and sourceUnit on every field.
func (s *Schema) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("schema name is required"))
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		switch {
		case f.Path == "":
			errs = append(errs, errors.New("field with empty path"))
			continue
		case f.Section() == "" || f.FieldName() == "":
			errs = append(errs, fmt.Errorf("field %q: path needs a section and a field name", f.Path))
		}
		if seen[f.Path] {
			errs = append(errs, fmt.Errorf("field %q: duplicate path", f.Path))
		}
		seen[f.Path] = true
		if f.SourceKey == "" {
			errs = append(errs, fmt.Errorf("field %q: sourceKey is required", f.Path))
		}
		if f.SourceUnit.IsZero() {
			errs = append(errs, fmt.Errorf("field %q: sourceUnit is required", f.Path))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}
	return nil
}

// Check resolves every field's unit against the registry without a
// payload. Use it to catch schema mismatches before ingesting data.
func (s *Schema) Check(reg *registry.Registry) error {
	var errs []error
	for _, f := range s.Fields {
		if _, err := resolve(f, reg); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", f.Path, err))
		}
	}
	return errors.Join(errs...)
}

// Sections returns the distinct section names in order of first appearance.
func (s *Schema) Sections() []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range s.Fields {
		if name := f.Section(); !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// FieldsIn returns the specs belonging to one section.
func (s *Schema) FieldsIn(section string) []FieldSpec {
	var out []FieldSpec
	for _, f := range s.Fields {
		if f.Section() == section {
			out = append(out, f)
		}
	}
	return out
}
