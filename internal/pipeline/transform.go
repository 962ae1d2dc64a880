package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/couchcryptid/dust-damage-service/internal/observability"
)

// AssessmentTransformer implements Transformer by computing each request.
// Requests that fail validation become rejection events rather than errors;
// only undecodable payloads are reported as failures.
type AssessmentTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates an AssessmentTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *AssessmentTransformer {
	return &AssessmentTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *AssessmentTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	assessment, err := domain.Assess(req)
	if err != nil {
		rejection := domain.Reject(req, err)
		kinds := rejection.Kinds()
		t.metrics.ObserveRejection(kinds)
		t.logger.Warn("assessment rejected",
			"assessment_id", rejection.ID,
			"case_ref", rejection.CaseRef,
			"kinds", kinds,
		)
		return domain.SerializeRejection(rejection)
	}

	t.metrics.DamageAmount.Observe(assessment.Result.Damage.Amount)
	t.logger.Debug("assessment computed",
		"assessment_id", assessment.ID,
		"case_ref", assessment.CaseRef,
		"total_emission_t", assessment.Result.Emission.TotalEmissionT,
		"damage", assessment.Result.Damage.Amount,
	)
	return domain.SerializeAssessment(assessment)
}
