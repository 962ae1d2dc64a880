package domain

import "math"

// LoadingEmissionFactor returns E_h in kg/t for ground wind speed u (m/s),
// material moisture m (%) and particle-size multiplier k. Moisture so small
// that its term underflows to zero is rejected as InvalidMoisture.
func LoadingEmissionFactor(u, m, k float64) (float64, error) {
	if de := checkMoisture(m); de != nil {
		return 0, de
	}
	moisture := math.Pow(m/100/moistureReference, loadingMoistureExp)
	if moisture == 0 {
		return 0, newDomainError(InvalidMoisture, "site.moisture_percent", "moisture %v is too small to evaluate", m)
	}
	wind := math.Pow(u/loadingReferenceU, loadingWindExponent)
	factor := k * loadingBaseFactor * wind / moisture * (1 - ControlEfficiency)
	if de := checkFinite(InvalidRange, "site.ground_wind_speed", "loading emission factor", factor); de != nil {
		return 0, de
	}
	return factor, nil
}

// LoadingMass returns W_h in kg for an emission factor, the average load per
// handling event (t) and the number of handling events per year.
func LoadingMass(factor, loadPerHandling float64, handlingCount int) float64 {
	return factor * loadPerHandling * float64(handlingCount)
}

// ComputeLoading runs stage 1 for a site.
func ComputeLoading(s SiteParameters) (LoadingStage, error) {
	k, ok := LoadingMultiplier(s.ParticleSize)
	if !ok {
		return LoadingStage{}, newDomainError(InvalidRange, "site.particle_size", "must be one of TSP, PM10, PM2.5")
	}
	factor, err := LoadingEmissionFactor(s.GroundWindSpeed, s.MoisturePercent, k)
	if err != nil {
		return LoadingStage{}, err
	}
	massKg := LoadingMass(factor, s.LoadPerHandling, s.HandlingCount)
	if de := checkFinite(InvalidRange, "site.load_per_handling_t", "loading mass", massKg); de != nil {
		return LoadingStage{}, de
	}
	return LoadingStage{
		Multiplier:     k,
		EmissionFactor: factor,
		MassKg:         massKg,
		MassT:          massKg / kilogramsPerTonne,
	}, nil
}
