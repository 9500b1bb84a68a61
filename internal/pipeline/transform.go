package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/levity-measure/internal/observability"
	"github.com/couchcryptid/levity-measure/internal/observation"
	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

// ErrNoFields is returned when a payload yields no measurements at all,
// usually because it was produced by a different data source.
var ErrNoFields = errors.New("no schema fields resolved")

// ObservationTransformer implements Transformer: it resolves payloads
// against one schema and localizes the result to the configured units.
type ObservationTransformer struct {
	schema   *observation.Schema
	registry *registry.Registry
	prefs    units.Preferences
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates an ObservationTransformer.
func NewTransformer(schema *observation.Schema, reg *registry.Registry, prefs units.Preferences, metrics *observability.Metrics, logger *slog.Logger) *ObservationTransformer {
	return &ObservationTransformer{
		schema:   schema,
		registry: reg,
		prefs:    prefs,
		metrics:  metrics,
		logger:   logger.With("schema", schema.Name),
	}
}

func (t *ObservationTransformer) Transform(_ context.Context, raw observation.RawMessage) (observation.OutputMessage, error) {
	payload, err := observation.ParsePayload(raw.Value)
	if err != nil {
		return observation.OutputMessage{}, err
	}

	obs, err := observation.Build(t.schema, payload, t.registry, t.logger)
	if err != nil {
		t.metrics.FieldsUnresolved.WithLabelValues(t.schema.Name).Add(float64(countErrors(err)))
		t.logger.Warn("observation partially resolved", "error", err, "offset", raw.Offset)
	}
	t.metrics.FieldsResolved.WithLabelValues(t.schema.Name).Add(float64(obs.FieldCount()))
	t.metrics.FieldsSkipped.WithLabelValues(t.schema.Name).Add(float64(obs.SkippedCount()))

	if obs.FieldCount() == 0 {
		return observation.OutputMessage{}, fmt.Errorf("payload at offset %d: %w", raw.Offset, ErrNoFields)
	}

	localized, err := obs.Localized(t.prefs)
	if err != nil {
		t.metrics.LocalizationFallbacks.WithLabelValues(t.schema.Name).Add(float64(countErrors(err)))
		t.logger.Warn("kept source units for some fields", "error", err, "id", obs.ID)
	}

	return observation.Serialize(localized)
}

// countErrors counts the leaves of a tree of joined errors.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return 1
	}
	n := 0
	for _, e := range joined.Unwrap() {
		n += countErrors(e)
	}
	return n
}
