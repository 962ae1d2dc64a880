package domain

import "math"

// Validate checks every field of the input record and returns a
// *ValidationError listing all violations, or nil.
func Validate(in Input) error {
	var errs []*DomainError
	add := func(de *DomainError) {
		if de != nil {
			errs = append(errs, de)
		}
	}

	s := in.Site
	add(nonNegative("site.ground_wind_speed", s.GroundWindSpeed))
	add(checkMoisture(s.MoisturePercent))
	if _, ok := LoadingMultiplier(s.ParticleSize); !ok {
		add(newDomainError(InvalidRange, "site.particle_size", "must be one of TSP, PM10, PM2.5"))
	}
	add(atLeastOneCount("site.handling_count", s.HandlingCount))
	add(atLeastOne("site.load_per_handling_t", s.LoadPerHandling))
	add(atLeastOne("site.yard_area_m2", s.YardArea))
	if z0, ok := RoughnessLength(s.Region); !ok {
		add(newDomainError(InvalidRange, "site.region", "must be one of urban, suburban"))
	} else {
		add(checkRoughness(MeasurementHeight, z0))
	}
	add(nonNegative("site.measured_wind_speed", s.MeasuredWindSpeed))
	add(nonNegative("site.threshold_friction_velocity", s.ThresholdFrictionVelocity))
	add(atLeastOneCount("site.disturbance_count", s.DisturbanceCount))

	c := in.Coefficients
	add(nonNegative("coefficients.hazard", c.Hazard))
	add(nonNegative("coefficients.environment_function", c.EnvironmentFunction))
	add(nonNegative("coefficients.receptor_sensitivity", c.ReceptorSensitivity))
	add(nonNegative("coefficients.exceedance", c.Exceedance))

	add(checkCost(in.UnitAbatementCost))

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkFinite reports a computed quantity that overflowed or became NaN.
func checkFinite(kind ErrorKind, field, quantity string, v float64) *DomainError {
	if finite(v) {
		return nil
	}
	return newDomainError(kind, field, "%s is not finite (%v)", quantity, v)
}

func nonNegative(field string, v float64) *DomainError {
	if !finite(v) || v < 0 {
		return newDomainError(InvalidRange, field, "must be a finite number >= 0, got %v", v)
	}
	return nil
}

func atLeastOne(field string, v float64) *DomainError {
	if !finite(v) || v < 1 {
		return newDomainError(InvalidRange, field, "must be a finite number >= 1, got %v", v)
	}
	return nil
}

func atLeastOneCount(field string, n int) *DomainError {
	if n < 1 {
		return newDomainError(InvalidRange, field, "must be >= 1, got %d", n)
	}
	return nil
}

func checkMoisture(m float64) *DomainError {
	if !finite(m) || m <= 0 {
		return newDomainError(InvalidMoisture, "site.moisture_percent", "moisture must be > 0, got %v", m)
	}
	return nil
}

// checkRoughness enforces z0 < z so that ln(z/z0) is positive.
func checkRoughness(z, z0 float64) *DomainError {
	if !finite(z0) || z0 <= 0 || z0 >= z {
		return newDomainError(InvalidRoughness, "site.region", "roughness length %v must be in (0, %v)", z0, z)
	}
	return nil
}

func checkCost(cost float64) *DomainError {
	if !finite(cost) || cost < 0 {
		return newDomainError(InvalidCost, "unit_abatement_cost", "unit abatement cost must be >= 0, got %v", cost)
	}
	return nil
}
