package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Display precision per quantity, matching the published calculation sheet.
const (
	factorPlaces    = 6
	massKgPlaces    = 3
	massTPlaces     = 6
	velocityPlaces  = 3
	potentialPlaces = 3
	currencyPlaces  = 2
)

// FormattedResult is a Result rendered as fixed-precision display strings.
type FormattedResult struct {
	LoadingEmissionFactor string `json:"loading_emission_factor_kg_per_t"`
	LoadingMassKg         string `json:"loading_mass_kg"`
	LoadingMassT          string `json:"loading_mass_t"`
	FrictionVelocity      string `json:"friction_velocity"`
	Potential             string `json:"potential_g_per_m2"`
	TotalPotential        string `json:"total_potential_g_per_m2"`
	ErosionEmissionFactor string `json:"erosion_emission_factor_kg_per_m2"`
	ErosionMassKg         string `json:"erosion_mass_kg"`
	ErosionMassT          string `json:"erosion_mass_t"`
	TotalEmissionT        string `json:"total_emission_t"`
	AdjustmentCoefficient string `json:"adjustment_coefficient"`
	UnitAbatementCost     string `json:"unit_abatement_cost"`
	DamageAmount          string `json:"damage_amount"`
}

// Fixed renders v with the given decimal places, rounding the exact binary
// value, so 1.005 (stored just below) renders as "1.00".
func Fixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// shortest renders an input coefficient in its shortest decimal form without
// an exponent, e.g. 2000 rather than 2e+03.
func shortest(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Format renders every value of a result for display.
func Format(r Result) FormattedResult {
	l, e := r.Emission.Loading, r.Emission.Erosion
	return FormattedResult{
		LoadingEmissionFactor: Fixed(l.EmissionFactor, factorPlaces),
		LoadingMassKg:         Fixed(l.MassKg, massKgPlaces),
		LoadingMassT:          Fixed(l.MassT, massTPlaces),
		FrictionVelocity:      Fixed(e.FrictionVelocity, velocityPlaces),
		Potential:             Fixed(e.Potential, potentialPlaces),
		TotalPotential:        Fixed(e.TotalPotential, potentialPlaces),
		ErosionEmissionFactor: Fixed(e.EmissionFactor, factorPlaces),
		ErosionMassKg:         Fixed(e.MassKg, massKgPlaces),
		ErosionMassT:          Fixed(e.MassT, massTPlaces),
		TotalEmissionT:        Fixed(r.Emission.TotalEmissionT, massTPlaces),
		AdjustmentCoefficient: shortest(r.Damage.AdjustmentCoefficient),
		UnitAbatementCost:     shortest(r.Damage.UnitAbatementCost),
		DamageAmount:          Fixed(r.Damage.Amount, currencyPlaces),
	}
}
