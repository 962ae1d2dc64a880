package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/couchcryptid/dust-damage-service/internal/observability"
)

// BatchExtractor reads up to batchSize raw assessment requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer converts a raw request into an assessment or rejection event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	running     atomic.Bool
	// degraded is set while the loop backs off after an extract or load
	// failure and cleared by the next successful round trip.
	degraded  atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Readiness errors.
var (
	ErrNotRunning = errors.New("pipeline is not running")
	ErrDegraded   = errors.New("pipeline is backing off after a transport error")
)

// CheckReadiness returns nil while the loop is running and its last
// extract or load succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return ErrNotRunning
	}
	if p.degraded.Load() {
		return ErrDegraded
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.running.Store(true)
	p.degraded.Store(false)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		p.degraded.Store(true)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) == 0 {
		p.degraded.Store(false)
		return ctx.Err() == nil
	}

	p.metrics.RequestsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	}
	return true
}

// transformAndLoad transforms each message in the batch, loads the successes,
// and commits offsets. Messages that fail to transform are committed and
// skipped. Returns the number of loaded events and false if the pipeline
// should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration) (int, bool) {
	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))
	successfulRaws := make([]domain.RawMessage, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		p.degraded.Store(false)
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		p.degraded.Store(true)
		return 0, p.backoffOrStop(ctx, backoff)
	}
	p.degraded.Store(false)

	p.metrics.ResultsProduced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
