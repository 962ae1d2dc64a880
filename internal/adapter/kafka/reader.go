package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/dust-damage-service/internal/config"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes assessment requests from a Kafka topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
// Offsets are committed explicitly through RawMessage.Commit.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch fetches up to batchSize messages. It returns early with a
// partial (possibly empty) batch once the flush interval elapses.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	fetchCtx := ctx
	if r.flushInterval > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.flushInterval)
		defer cancel()
	}

	batch := make([]domain.RawMessage, 0, batchSize)
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(fetchCtx)
		if err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return batch, err
		}
		raw := mapMessageToRawMessage(msg)
		raw.Commit = r.commitFunc(msg)
		batch = append(batch, raw)
	}

	if len(batch) > 0 {
		r.logger.Debug("extracted batch", "size", len(batch), "topic", r.reader.Config().Topic)
	}
	return batch, nil
}

func (r *Reader) commitFunc(msg kafkago.Message) func(context.Context) error {
	return func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func mapMessageToRawMessage(msg kafkago.Message) domain.RawMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawMessage{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
