package domain

import "errors"

// Compute validates the input record and runs the four stages in order.
// Invalid input is rejected as a whole with a *ValidationError before any
// formula is evaluated. A stage whose output is not finite fails with a
// *ValidationError naming the input that drove it; no partial result is
// returned.
func Compute(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	loading, err := ComputeLoading(in.Site)
	if err != nil {
		return Result{}, stageError(err)
	}
	erosion, err := ComputeErosion(in.Site)
	if err != nil {
		return Result{}, stageError(err)
	}
	total := TotalEmission(loading.MassT, erosion.MassT)

	damage, err := ComputeDamage(total, in.Coefficients, in.UnitAbatementCost)
	if err != nil {
		return Result{}, stageError(err)
	}

	return Result{
		Emission: EmissionResult{
			Loading:        loading,
			Erosion:        erosion,
			TotalEmissionT: total,
		},
		Damage: damage,
	}, nil
}

func stageError(err error) error {
	var de *DomainError
	if errors.As(err, &de) {
		return &ValidationError{Errors: []*DomainError{de}}
	}
	return err
}

// DefaultInput returns the worked example used as the calculator's initial
// values: a 453 m² urban TSP yard at 5 m/s wind and 2% moisture, valued at
// 2000 per tonne with unit coefficients.
func DefaultInput() Input {
	return Input{
		Site: SiteParameters{
			GroundWindSpeed:           5.0,
			MoisturePercent:           2.0,
			ParticleSize:              TSP,
			HandlingCount:             1,
			LoadPerHandling:           2,
			YardArea:                  453,
			Region:                    Urban,
			MeasuredWindSpeed:         5.0,
			ThresholdFrictionVelocity: 0.45,
			DisturbanceCount:          1,
		},
		Coefficients: CoefficientSet{
			Hazard:              1.0,
			EnvironmentFunction: 1.0,
			ReceptorSensitivity: 1.0,
			Exceedance:          1.0,
		},
		UnitAbatementCost: 2000,
	}
}
