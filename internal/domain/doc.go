// Package domain computes ecological-damage compensation for fugitive dust
// emitted by a material storage yard.
//
// # Emission Pathways
//
// A yard emits dust along two independent pathways whose masses are summed:
//
//	W = W_h + W_w   (tonnes per year)
//
// Loading and transport (stage 1). Every handling event disturbs the stored
// material; the emission factor depends on ground wind speed u (m/s) and
// material moisture M (%):
//
//	E_h = k_h × 0.0016 × (u / 2.2)^1.3 / (M / 100 / 2)^1.4 × (1 − η)   kg/t
//	W_h = E_h × load per handling event (t) × handling events per year   kg
//
// Wind erosion (stage 2). The friction velocity is derived from the wind
// speed measured at height z with the logarithmic wind profile:
//
//	u* = 0.4 × u(z) / ln(z / z0)      z = 10 m, z0 < z
//
// and drives a piecewise erosion potential per disturbance:
//
//	P = 58 (u* − u*t)² + 25 (u* − u*t)   when u* > u*t
//	P = 0                                otherwise (equality included)
//
// Every annual disturbance is assumed to release the same single-event
// potential, so P_total = P × n. Then:
//
//	E_w = (1 − η) × k_w × P_total × 10⁻³   kg/m²
//	W_w = E_w × yard area                 kg
//
// # Particle-Size Multipliers
//
// The two pathways are calibrated separately and carry different multiplier
// tables for the same size fraction:
//
//	          loading (k_h)   wind erosion (k_w)
//	TSP       0.74            1.0
//	PM10      0.35            0.5
//	PM2.5     0.053           0.25
//
// # Roughness Lengths
//
//	urban      z0 = 0.6 m
//	suburban   z0 = 0.2 m
//
// # Control Efficiency
//
// η is the pollution-control efficiency. The methodology as applied here
// assumes uncontrolled yards, so [ControlEfficiency] is 0.
//
// # Damage Valuation
//
//	γ = (hazard × environmental function + receptor sensitivity) × exceedance
//	D = W (t) × unit abatement cost (currency/t) × γ
//
// All computation is done in float64 at full precision. Rounding happens
// only when rendering through [Format].
package domain
