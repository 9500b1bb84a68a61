package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// SchemaPath is the data-source schema applied to every payload.
	SchemaPath string

	// UnitSystem is the preset ("imperial" or "metric") that Preferences
	// starts from before per-family overrides.
	UnitSystem  string
	Preferences units.Preferences
}

// scalarOverrides maps env vars to the family they select a display unit for.
var scalarOverrides = []struct {
	env    string
	family units.Family
}{
	{"UNITS_TEMPERATURE", units.Temperature},
	{"UNITS_PRESSURE", units.Pressure},
	{"UNITS_LENGTH", units.Length},
}

// compoundOverrides maps env vars to compound kinds. Values are
// "<numerator>,<denominator>" long names, e.g. "mile,hour".
var compoundOverrides = []struct {
	env  string
	kind string
}{
	{"UNITS_WIND", units.KindWind},
	{"UNITS_PRECIPITATION", units.KindPrecipitation},
	{"UNITS_PRECIPITATION_RATE", units.KindPrecipitationRate},
	{"UNITS_AIR_DENSITY", units.KindAirDensity},
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	system := strings.ToLower(sharedcfg.EnvOrDefault("UNIT_SYSTEM", "imperial"))
	prefs, err := parsePreferences(system)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-observations"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "localized-observations"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "levity-ingest"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		SchemaPath:         sharedcfg.EnvOrDefault("SCHEMA_PATH", "schemas/tomorrow-io.yaml"),
		UnitSystem:         system,
		Preferences:        prefs,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.SchemaPath == "" {
		return nil, errors.New("SCHEMA_PATH is required")
	}

	return cfg, nil
}

// parsePreferences starts from the named preset and applies UNITS_* overrides.
func parsePreferences(system string) (units.Preferences, error) {
	var prefs units.Preferences
	switch system {
	case "imperial":
		prefs = units.ImperialPreferences()
	case "metric":
		prefs = units.MetricPreferences()
	default:
		return units.Preferences{}, fmt.Errorf("invalid UNIT_SYSTEM %q: want imperial or metric", system)
	}

	for _, o := range scalarOverrides {
		name := os.Getenv(o.env)
		if name == "" {
			continue
		}
		u, ok := units.LookupName(name)
		if !ok {
			return units.Preferences{}, fmt.Errorf("invalid %s: %w", o.env, &units.UnknownUnitError{Identifier: name})
		}
		if u.Family() != o.family {
			return units.Preferences{}, fmt.Errorf("invalid %s: %s is not a %s unit", o.env, name, o.family)
		}
		prefs.Scalars[o.family] = u
	}

	for _, o := range compoundOverrides {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		num, den, ok := strings.Cut(v, ",")
		num, den = strings.TrimSpace(num), strings.TrimSpace(den)
		if !ok || num == "" || den == "" {
			return units.Preferences{}, fmt.Errorf("invalid %s %q: want <numerator>,<denominator>", o.env, v)
		}
		numUnit, ok := units.LookupName(num)
		if !ok {
			return units.Preferences{}, fmt.Errorf("invalid %s: %w", o.env, &units.UnknownUnitError{Identifier: num})
		}
		denUnit, ok := units.LookupName(den)
		if !ok {
			return units.Preferences{}, fmt.Errorf("invalid %s: %w", o.env, &units.UnknownUnitError{Identifier: den})
		}
		if special, ok := registry.LookupSpecial(o.kind); ok {
			if err := special.CheckUnits(numUnit, denUnit); err != nil {
				return units.Preferences{}, fmt.Errorf("invalid %s: %w", o.env, err)
			}
		}
		prefs.Compounds[o.kind] = units.Pair{Numerator: num, Denominator: den}
	}
	return prefs, nil
}
