package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/levity-measure/internal/config"
	"github.com/couchcryptid/levity-measure/internal/observation"
)

func TestMapMessageToRaw(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"time":"2024-06-01T12:30:00Z"}`),
		Topic:     "raw-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("tomorrow-io")},
		},
	}

	raw := mapMessageToRaw(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"time":"2024-06-01T12:30:00Z"}`, string(raw.Value))
	assert.Equal(t, "raw-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "tomorrow-io", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestToKafkaMessage(t *testing.T) {
	msg := toKafkaMessage(observation.OutputMessage{
		Key:   []byte("0d5f6c1e-0000-5000-8000-000000000000"),
		Value: []byte(`{"schema":"tomorrow-io"}`),
		Headers: map[string]string{
			"schema":       "tomorrow-io",
			"processed_at": "2024-06-01T13:00:00Z",
			"observed_at":  "2024-06-01T12:30:00Z",
		},
	})

	assert.Equal(t, []byte("0d5f6c1e-0000-5000-8000-000000000000"), msg.Key)
	assert.JSONEq(t, `{"schema":"tomorrow-io"}`, string(msg.Value))
	assert.Equal(t, []kafkago.Header{
		{Key: "observed_at", Value: []byte("2024-06-01T12:30:00Z")},
		{Key: "processed_at", Value: []byte("2024-06-01T13:00:00Z")},
		{Key: "schema", Value: []byte("tomorrow-io")},
	}, msg.Headers)
}

func TestWriter_LoadBatchEmpty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:0"}, KafkaSinkTopic: "sink"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	// No network round trip for an empty batch.
	assert.NoError(t, w.LoadBatch(context.Background(), nil))
}
