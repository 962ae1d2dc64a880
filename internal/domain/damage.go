package domain

// AdjustmentCoefficient returns γ = (hazard × env function + receptor) × exceedance.
func AdjustmentCoefficient(c CoefficientSet) float64 {
	return (c.Hazard*c.EnvironmentFunction + c.ReceptorSensitivity) * c.Exceedance
}

// TotalEmission sums the two pathway masses in tonnes.
func TotalEmission(loadingT, erosionT float64) float64 {
	return loadingT + erosionT
}

// DamageAmount returns D = total tonnes × unit cost × γ.
func DamageAmount(totalT, unitCost, gamma float64) (float64, error) {
	if de := checkCost(unitCost); de != nil {
		return 0, de
	}
	return totalT * unitCost * gamma, nil
}

// ComputeDamage runs stage 4 over an aggregated emission total.
func ComputeDamage(totalT float64, c CoefficientSet, unitCost float64) (DamageResult, error) {
	if de := checkFinite(InvalidRange, "total_emission_t", "total emission", totalT); de != nil {
		return DamageResult{}, de
	}
	gamma := AdjustmentCoefficient(c)
	if de := checkFinite(InvalidRange, "coefficients", "adjustment coefficient", gamma); de != nil {
		return DamageResult{}, de
	}
	amount, err := DamageAmount(totalT, unitCost, gamma)
	if err != nil {
		return DamageResult{}, err
	}
	if de := checkFinite(InvalidRange, "unit_abatement_cost", "damage amount", amount); de != nil {
		return DamageResult{}, de
	}
	return DamageResult{
		AdjustmentCoefficient: gamma,
		UnitAbatementCost:     unitCost,
		Amount:                amount,
	}, nil
}
