package kafka

import (
	"context"
	"log/slog"
	"sort"

	"github.com/couchcryptid/dust-damage-service/internal/config"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes assessment and rejection events to the sink topic in a
// single WriteMessages call. Events are keyed by assessment ID so that
// reprocessed requests land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("loaded batch", "size", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output event into a Kafka message. Headers are
// emitted in key order.
func toMessage(event domain.OutputEvent) kafkago.Message {
	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
