package observation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawMessage is an unprocessed payload from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is the serialized form destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Serialize encodes an observation for the sink topic, keyed by its ID.
func Serialize(obs Observation) (OutputMessage, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize observation: %w", err)
	}
	headers := map[string]string{
		"schema":       obs.Schema,
		"processed_at": obs.ProcessedAt.Format(time.RFC3339),
	}
	if !obs.ObservedAt.IsZero() {
		headers["observed_at"] = obs.ObservedAt.UTC().Format(time.RFC3339)
	}
	return OutputMessage{
		Key:     []byte(obs.ID.String()),
		Value:   data,
		Headers: headers,
	}, nil
}
