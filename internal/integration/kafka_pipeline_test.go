//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/kafka"
	"github.com/couchcryptid/dust-damage-service/internal/config"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/couchcryptid/dust-damage-service/internal/observability"
	"github.com/couchcryptid/dust-damage-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// sinkMessage is one message read back from the sink topic.
type sinkMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return sinkMessage{Key: string(msg.Key), Value: msg.Value, Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaEnabled:       true,
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func requestPayload(t *testing.T, caseRef string, in domain.Input) []byte {
	t.Helper()
	data, err := json.Marshal(domain.Request{CaseRef: caseRef, Input: in})
	require.NoError(t, err)
	return data
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
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
// an assessment request through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := requestPayload(t, "MZL-2024-1127", domain.DefaultInput())
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("req-1"), Value: payload}))

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawMessage
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(discardLogger(), observability.NewMetricsForTesting())
	event, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{event}))

	msg := readSink(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "req-1", msg.Key)
	assert.Equal(t, domain.StatusAccepted, msg.Headers["status"])
	_, err = time.Parse(time.RFC3339, msg.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	var a domain.Assessment
	require.NoError(t, json.Unmarshal(msg.Value, &a))
	assert.Equal(t, "MZL-2024-1127", a.CaseRef)
	assert.InDelta(t, 36.34675520264749, a.Result.Damage.Amount, 1e-9)
}

// TestPipelineEndToEnd runs the full pipeline against real Kafka: valid
// requests produce assessments, invalid ones produce rejections, and a
// malformed payload is skipped.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	suburban := domain.DefaultInput()
	suburban.Site.Region = domain.Suburban
	dry := domain.DefaultInput()
	dry.Site.MoisturePercent = 0

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("default"), Value: requestPayload(t, "MZL-1", domain.DefaultInput())},
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("suburban"), Value: requestPayload(t, "MZL-2", suburban)},
		kafkago.Message{Key: []byte("dry"), Value: requestPayload(t, "MZL-3", dry)},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, pipeline.NewTransformer(discardLogger(), metrics), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := map[string]sinkMessage{}
	for len(received) < 3 {
		msg := readSink(ctx, t, consumer)
		received[msg.Key] = msg
	}

	// The malformed payload never reaches the sink.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no message for the malformed payload")

	pipelineCancel()
	require.NoError(t, <-errCh)

	require.Contains(t, received, "default")
	assert.Equal(t, domain.StatusAccepted, received["default"].Headers["status"])

	require.Contains(t, received, "suburban")
	var sub domain.Assessment
	require.NoError(t, json.Unmarshal(received["suburban"].Value, &sub))
	assert.InDelta(t, 0.5112444372706629, sub.Result.Emission.Erosion.FrictionVelocity, 1e-12)

	require.Contains(t, received, "dry")
	assert.Equal(t, domain.StatusRejected, received["dry"].Headers["status"])
	var rej domain.Rejection
	require.NoError(t, json.Unmarshal(received["dry"].Value, &rej))
	require.Len(t, rej.Errors, 1)
	assert.Equal(t, domain.InvalidMoisture, rej.Errors[0].Kind)
}
