// Package observation turns raw data-source payloads into named sections of
// typed measurements, driven by a schema file.
package observation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

// idNamespace scopes observation IDs so the same payload always maps to the
// same ID.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/couchcryptid/levity-measure/observation"))

// Observation is one payload resolved against a schema.
type Observation struct {
	ID          uuid.UUID  `json:"id"`
	Schema      string     `json:"schema"`
	ObservedAt  time.Time  `json:"observed_at,omitzero"`
	ProcessedAt time.Time  `json:"processed_at"`
	Sections    []*Section `json:"sections"`
}

// Build resolves every schema field against payload, grouping fields into
// sections by the first path segment. Per-field errors are joined; the
// returned observation holds everything that resolved.
func Build(schema *Schema, payload Payload, reg *registry.Registry, logger *slog.Logger) (Observation, error) {
	id, err := payloadID(schema.Name, payload)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{
		ID:          id,
		Schema:      schema.Name,
		ProcessedAt: clock.Now().UTC(),
	}

	logger = logger.With("schema", schema.Name)
	var errs []error
	for _, name := range schema.Sections() {
		section, err := NewSection(name, schema.FieldsIn(name), payload, reg, logger)
		if err != nil {
			errs = append(errs, err)
		}
		if section.Len() == 0 {
			continue
		}
		obs.Sections = append(obs.Sections, section)
	}
	obs.ObservedAt = obs.firstTime()
	return obs, errors.Join(errs...)
}

// payloadID derives a UUIDv5 from the schema name and the canonical JSON
// form of the payload. encoding/json sorts map keys, so key order in the
// original message does not matter.
func payloadID(schema string, payload Payload) (uuid.UUID, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("canonicalize payload: %w", err)
	}
	return uuid.NewSHA1(idNamespace, append([]byte(schema+"\x00"), canonical...)), nil
}

func (o Observation) firstTime() time.Time {
	for _, s := range o.Sections {
		for _, f := range s.Fields() {
			if f.Kind == registry.KindDatetime {
				return f.Time
			}
		}
	}
	return time.Time{}
}

// Section returns the named section.
func (o Observation) Section(name string) (*Section, bool) {
	for _, s := range o.Sections {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// FieldCount is the number of resolved fields across all sections.
func (o Observation) FieldCount() int {
	n := 0
	for _, s := range o.Sections {
		n += s.Len()
	}
	return n
}

// SkippedCount is the number of fields skipped for missing source keys.
func (o Observation) SkippedCount() int {
	n := 0
	for _, s := range o.Sections {
		n += len(s.skipped)
	}
	return n
}

// Localized converts every section to the preferred units. Fields that
// fail keep their original units; the errors are joined.
func (o Observation) Localized(p units.Preferences) (Observation, error) {
	out := o
	out.Sections = make([]*Section, 0, len(o.Sections))

	var errs []error
	for _, s := range o.Sections {
		ls, err := s.Localized(p)
		if err != nil {
			errs = append(errs, err)
		}
		out.Sections = append(out.Sections, ls)
	}
	return out, errors.Join(errs...)
}
