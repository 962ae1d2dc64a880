package spreadsheet

import (
	"github.com/couchcryptid/dust-damage-service/internal/domain"
)

// ResultsSheet is the sheet written by WriteResults.
const ResultsSheet = "Results"

// Request columns. Every column except id and case_ref is required.
const (
	colID                  = "id"
	colCaseRef             = "case_ref"
	colGroundWindSpeed     = "ground_wind_speed"
	colMoisturePercent     = "moisture_percent"
	colParticleSize        = "particle_size"
	colHandlingCount       = "handling_count"
	colLoadPerHandling     = "load_per_handling_t"
	colYardArea            = "yard_area_m2"
	colRegion              = "region"
	colMeasuredWindSpeed   = "measured_wind_speed"
	colThresholdFriction   = "threshold_friction_velocity"
	colDisturbanceCount    = "disturbance_count"
	colHazard              = "hazard"
	colEnvironmentFunction = "environment_function"
	colReceptorSensitivity = "receptor_sensitivity"
	colExceedance          = "exceedance"
	colUnitAbatementCost   = "unit_abatement_cost"
)

// Result columns appended after the request columns.
const (
	colStatus                = "status"
	colLoadingFactor         = "loading_emission_factor_kg_per_t"
	colLoadingMassT          = "loading_mass_t"
	colFrictionVelocity      = "friction_velocity"
	colPotential             = "potential_g_per_m2"
	colErosionFactor         = "erosion_emission_factor_kg_per_m2"
	colErosionMassT          = "erosion_mass_t"
	colTotalEmissionT        = "total_emission_t"
	colAdjustmentCoefficient = "adjustment_coefficient"
	colDamage                = "damage_amount"
	colErrors                = "errors"
)

var requestColumns = []string{
	colID,
	colCaseRef,
	colGroundWindSpeed,
	colMoisturePercent,
	colParticleSize,
	colHandlingCount,
	colLoadPerHandling,
	colYardArea,
	colRegion,
	colMeasuredWindSpeed,
	colThresholdFriction,
	colDisturbanceCount,
	colHazard,
	colEnvironmentFunction,
	colReceptorSensitivity,
	colExceedance,
	colUnitAbatementCost,
}

var resultColumns = []string{
	colStatus,
	colLoadingFactor,
	colLoadingMassT,
	colFrictionVelocity,
	colPotential,
	colErosionFactor,
	colErosionMassT,
	colTotalEmissionT,
	colAdjustmentCoefficient,
	colDamage,
	colErrors,
}

func optionalColumn(name string) bool {
	return name == colID || name == colCaseRef
}

// requestValues lays out a request in requestColumns order.
func requestValues(req domain.Request) []any {
	s, c := req.Input.Site, req.Input.Coefficients
	return []any{
		req.ID,
		req.CaseRef,
		s.GroundWindSpeed,
		s.MoisturePercent,
		s.ParticleSize.String(),
		s.HandlingCount,
		s.LoadPerHandling,
		s.YardArea,
		s.Region.String(),
		s.MeasuredWindSpeed,
		s.ThresholdFrictionVelocity,
		s.DisturbanceCount,
		c.Hazard,
		c.EnvironmentFunction,
		c.ReceptorSensitivity,
		c.Exceedance,
		req.Input.UnitAbatementCost,
	}
}

// resultValues lays out a computed result in resultColumns order.
func resultValues(r domain.Result) []any {
	return []any{
		domain.StatusAccepted,
		r.Emission.Loading.EmissionFactor,
		r.Emission.Loading.MassT,
		r.Emission.Erosion.FrictionVelocity,
		r.Emission.Erosion.Potential,
		r.Emission.Erosion.EmissionFactor,
		r.Emission.Erosion.MassT,
		r.Emission.TotalEmissionT,
		r.Damage.AdjustmentCoefficient,
		r.Damage.Amount,
		"",
	}
}
