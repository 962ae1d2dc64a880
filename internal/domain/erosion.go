package domain

import "math"

// FrictionVelocity returns u* for wind speed u measured at height z above a
// surface of roughness length z0. Requires 0 < z0 < z.
func FrictionVelocity(u, z, z0 float64) (float64, error) {
	if de := checkRoughness(z, z0); de != nil {
		return 0, de
	}
	return vonKarman * u / math.Log(z/z0), nil
}

// WindErosionPotential returns the single-event potential P in g/m².
// Equality with the threshold yields zero.
func WindErosionPotential(uStar, threshold float64) float64 {
	if uStar <= threshold {
		return 0
	}
	excess := uStar - threshold
	return erosionQuadratic*(excess*excess) + erosionLinear*excess
}

// ErosionEmissionFactor returns E_w in kg/m² from the annual potential
// (g/m²) and particle-size multiplier k.
func ErosionEmissionFactor(totalPotential, k float64) float64 {
	return (1 - ControlEfficiency) * k * totalPotential * kilogramsPerGram
}

// ComputeErosion runs stage 2 for a site. Every disturbance contributes the
// same single-event potential.
func ComputeErosion(s SiteParameters) (ErosionStage, error) {
	z0, ok := RoughnessLength(s.Region)
	if !ok {
		return ErosionStage{}, newDomainError(InvalidRange, "site.region", "must be one of urban, suburban")
	}
	k, ok := ErosionMultiplier(s.ParticleSize)
	if !ok {
		return ErosionStage{}, newDomainError(InvalidRange, "site.particle_size", "must be one of TSP, PM10, PM2.5")
	}
	uStar, err := FrictionVelocity(s.MeasuredWindSpeed, MeasurementHeight, z0)
	if err != nil {
		return ErosionStage{}, err
	}

	potential := WindErosionPotential(uStar, s.ThresholdFrictionVelocity)
	if de := checkFinite(InvalidRange, "site.measured_wind_speed", "wind erosion potential", potential); de != nil {
		return ErosionStage{}, de
	}
	total := potential * float64(s.DisturbanceCount)
	if de := checkFinite(InvalidRange, "site.disturbance_count", "annual wind erosion potential", total); de != nil {
		return ErosionStage{}, de
	}
	factor := ErosionEmissionFactor(total, k)
	massKg := factor * s.YardArea
	if de := checkFinite(InvalidRange, "site.yard_area_m2", "wind erosion mass", massKg); de != nil {
		return ErosionStage{}, de
	}

	return ErosionStage{
		RoughnessLength:  z0,
		FrictionVelocity: uStar,
		Potential:        potential,
		TotalPotential:   total,
		Multiplier:       k,
		EmissionFactor:   factor,
		MassKg:           massKg,
		MassT:            massKg / kilogramsPerTonne,
	}, nil
}
