//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/levity-measure/internal/adapter/kafka"
	"github.com/couchcryptid/levity-measure/internal/config"
	"github.com/couchcryptid/levity-measure/internal/observability"
	"github.com/couchcryptid/levity-measure/internal/observation"
	"github.com/couchcryptid/levity-measure/internal/pipeline"
	"github.com/couchcryptid/levity-measure/internal/registry"
	"github.com/couchcryptid/levity-measure/internal/units"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

type sinkField struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

type sinkObservation struct {
	ID       string `json:"id"`
	Schema   string `json:"schema"`
	Sections []struct {
		Name   string      `json:"name"`
		Fields []sinkField `json:"fields"`
	} `json:"sections"`
}

func (o sinkObservation) unitOf(t *testing.T, section, field string) string {
	t.Helper()
	for _, s := range o.Sections {
		if s.Name != section {
			continue
		}
		for _, f := range s.Fields {
			if f.Name != field {
				continue
			}
			var m struct {
				Unit string `json:"unit"`
			}
			require.NoError(t, json.Unmarshal(f.Value, &m))
			return m.Unit
		}
	}
	t.Fatalf("field %s.%s missing from sink message", section, field)
	return ""
}

// transformedMessage holds a deserialized message read from the sink topic.
type transformedMessage struct {
	Observation sinkObservation
	Key         string
	Headers     map[string]string
}

// readTransformed reads a single message from the sink consumer and deserializes it.
func readTransformed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) transformedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var obs sinkObservation
	require.NoError(t, json.Unmarshal(msg.Value, &obs), "unmarshal sink message")

	return transformedMessage{Observation: obs, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func newSinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies that kafka.Reader and kafka.Writer round-trip
// a payload through a real broker.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")
	payload := loadPayloads(t)[0]

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("test-key"), Value: payload}))

	// The consumer group may need time to rebalance before partitions are assigned.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	for {
		batch, err := reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) == 0 {
			if ctx.Err() != nil {
				t.Fatal("timed out waiting for message from source topic")
			}
			continue
		}

		require.Len(t, batch, 1)
		raw := batch[0]
		assert.Equal(t, []byte("test-key"), raw.Key)
		assert.JSONEq(t, string(payload), string(raw.Value))
		assert.Equal(t, testSourceTopic, raw.Topic)
		require.NotNil(t, raw.Commit, "commit callback should be set")
		require.NoError(t, raw.Commit(ctx))

		transformer := pipeline.NewTransformer(loadSchema(t), registry.New(), units.MetricPreferences(),
			observability.NewMetricsForTesting(), discardLogger())
		out, err := transformer.Transform(ctx, raw)
		require.NoError(t, err)

		writer := kafka.NewWriter(cfg, discardLogger())
		t.Cleanup(func() { _ = writer.Close() })
		require.NoError(t, writer.LoadBatch(ctx, []observation.OutputMessage{out}))
		break
	}

	tm := readTransformed(ctx, t, newSinkConsumer(t, broker))
	assert.Equal(t, "tomorrow-io", tm.Headers["schema"])
	_, err := time.Parse(time.RFC3339, tm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")
	assert.NotEmpty(t, tm.Headers["observed_at"])

	assert.Equal(t, tm.Key, tm.Observation.ID)
	assert.Equal(t, "c", tm.Observation.unitOf(t, "environment", "temperature.temperature"))
	assert.Equal(t, "kph", tm.Observation.unitOf(t, "environment", "wind.speed.speed"))
}

// TestPipelineEndToEnd runs Reader, Transformer and Writer against a real
// broker and checks every fixture payload is localized.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-pipeline")
	payloads := loadPayloads(t)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(payloads))
	for i, p := range payloads {
		msgs = append(msgs, kafkago.Message{Key: []byte(fmt.Sprintf("hour-%d", i)), Value: p})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(loadSchema(t), registry.New(), units.ImperialPreferences(), metrics, discardLogger())
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)
	received := make([]transformedMessage, 0, len(payloads))
	for len(received) < len(payloads) {
		received = append(received, readTransformed(ctx, t, consumer))
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	assert.True(t, p.Ready())

	ids := make(map[string]bool, len(received))
	for _, tm := range received {
		assert.Equal(t, "tomorrow-io", tm.Observation.Schema)
		assert.Equal(t, "tomorrow-io", tm.Headers["schema"])
		assert.NotEmpty(t, tm.Headers["observed_at"], "missing observed_at header")
		assert.Equal(t, "f", tm.Observation.unitOf(t, "environment", "temperature.temperature"))
		assert.Equal(t, "mph", tm.Observation.unitOf(t, "environment", "wind.speed.speed"))
		assert.Equal(t, "in/hr", tm.Observation.unitOf(t, "environment", "precipitation.rate"))
		ids[tm.Observation.ID] = true
	}
	assert.Len(t, ids, len(payloads), "each payload gets its own observation ID")
}

// TestPipelineTransformError verifies that an invalid payload is skipped and
// the pipeline keeps processing valid ones.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("good"), Value: loadPayloads(t)[0]},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(loadSchema(t), registry.New(), units.ImperialPreferences(), metrics, discardLogger())
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)
	tm := readTransformed(ctx, t, consumer)
	assert.Equal(t, "tomorrow-io", tm.Observation.Schema)

	// The poison pill must not produce a second message.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
