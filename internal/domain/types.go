package domain

// SiteParameters describes the storage yard and its meteorology.
type SiteParameters struct {
	GroundWindSpeed           float64      `json:"ground_wind_speed" toml:"ground_wind_speed"`                     // m/s, loading pathway
	MoisturePercent           float64      `json:"moisture_percent" toml:"moisture_percent"`                       // %, > 0
	ParticleSize              ParticleSize `json:"particle_size" toml:"particle_size"`                             // TSP | PM10 | PM2.5
	HandlingCount             int          `json:"handling_count" toml:"handling_count"`                           // events per year, >= 1
	LoadPerHandling           float64      `json:"load_per_handling_t" toml:"load_per_handling_t"`                 // t per event, >= 1
	YardArea                  float64      `json:"yard_area_m2" toml:"yard_area_m2"`                               // m², >= 1
	Region                    Region       `json:"region" toml:"region"`                                           // urban | suburban
	MeasuredWindSpeed         float64      `json:"measured_wind_speed" toml:"measured_wind_speed"`                 // m/s at MeasurementHeight
	ThresholdFrictionVelocity float64      `json:"threshold_friction_velocity" toml:"threshold_friction_velocity"` // m/s
	DisturbanceCount          int          `json:"disturbance_count" toml:"disturbance_count"`                     // per year, >= 1
}

// CoefficientSet holds the four independent policy coefficients used to
// derive the adjustment coefficient γ.
type CoefficientSet struct {
	Hazard              float64 `json:"hazard" toml:"hazard"`
	EnvironmentFunction float64 `json:"environment_function" toml:"environment_function"`
	ReceptorSensitivity float64 `json:"receptor_sensitivity" toml:"receptor_sensitivity"`
	Exceedance          float64 `json:"exceedance" toml:"exceedance"`
}

// Input is the complete record consumed by Compute.
type Input struct {
	Site              SiteParameters `json:"site" toml:"site"`
	Coefficients      CoefficientSet `json:"coefficients" toml:"coefficients"`
	UnitAbatementCost float64        `json:"unit_abatement_cost" toml:"unit_abatement_cost"` // currency per tonne
}

// LoadingStage holds the loading/transport pathway values.
type LoadingStage struct {
	Multiplier     float64 `json:"multiplier"`
	EmissionFactor float64 `json:"emission_factor_kg_per_t"`
	MassKg         float64 `json:"mass_kg"`
	MassT          float64 `json:"mass_t"`
}

// ErosionStage holds the wind-erosion pathway values.
type ErosionStage struct {
	RoughnessLength  float64 `json:"roughness_length_m"`
	FrictionVelocity float64 `json:"friction_velocity"`
	Potential        float64 `json:"potential_g_per_m2"`
	TotalPotential   float64 `json:"total_potential_g_per_m2"`
	Multiplier       float64 `json:"multiplier"`
	EmissionFactor   float64 `json:"emission_factor_kg_per_m2"`
	MassKg           float64 `json:"mass_kg"`
	MassT            float64 `json:"mass_t"`
}

// EmissionResult carries every intermediate emission value so that each
// step can be displayed and asserted on.
type EmissionResult struct {
	Loading        LoadingStage `json:"loading"`
	Erosion        ErosionStage `json:"wind_erosion"`
	TotalEmissionT float64      `json:"total_emission_t"`
}

// DamageResult is the valuation stage output.
type DamageResult struct {
	AdjustmentCoefficient float64 `json:"adjustment_coefficient"`
	UnitAbatementCost     float64 `json:"unit_abatement_cost"`
	Amount                float64 `json:"amount"`
}

// Result is the full output of Compute. It is returned by value and never
// modified afterwards.
type Result struct {
	Emission EmissionResult `json:"emission"`
	Damage   DamageResult   `json:"damage"`
}
