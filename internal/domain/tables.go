package domain

import (
	"fmt"
	"strings"
)

const (
	// ControlEfficiency is the pollution-control efficiency η applied to both
	// pathways. Yards are assessed as uncontrolled.
	ControlEfficiency = 0.0

	// MeasurementHeight is the anemometer height z in metres.
	MeasurementHeight = 10.0

	// vonKarman is the von Kármán constant of the log wind profile.
	vonKarman = 0.4

	loadingBaseFactor   = 0.0016
	loadingReferenceU   = 2.2
	loadingWindExponent = 1.3
	loadingMoistureExp  = 1.4
	moistureReference   = 2.0 // percent, applied as M/100/2

	erosionQuadratic = 58.0
	erosionLinear    = 25.0

	kilogramsPerGram  = 1e-3
	kilogramsPerTonne = 1e3
)

// ParticleSize is the particulate size fraction being assessed.
type ParticleSize uint8

const (
	ParticleSizeUnknown ParticleSize = iota
	TSP
	PM10
	PM25
)

// ParticleSizes lists every valid size fraction in display order.
var ParticleSizes = []ParticleSize{TSP, PM10, PM25}

func (p ParticleSize) String() string {
	switch p {
	case TSP:
		return "TSP"
	case PM10:
		return "PM10"
	case PM25:
		return "PM2.5"
	default:
		return "unknown"
	}
}

// ParseParticleSize accepts TSP, PM10, PM2.5 (or PM25), case-insensitive.
func ParseParticleSize(s string) (ParticleSize, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TSP":
		return TSP, nil
	case "PM10":
		return PM10, nil
	case "PM2.5", "PM25":
		return PM25, nil
	default:
		return ParticleSizeUnknown, fmt.Errorf("unknown particle size %q", s)
	}
}

func (p ParticleSize) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText leaves unrecognised labels as ParticleSizeUnknown so that
// validation reports them alongside every other bad field.
func (p *ParticleSize) UnmarshalText(b []byte) error {
	v, err := ParseParticleSize(string(b))
	if err != nil {
		*p = ParticleSizeUnknown
		return nil
	}
	*p = v
	return nil
}

// Region is the land-use class that fixes the surface roughness length.
type Region uint8

const (
	RegionUnknown Region = iota
	Urban
	Suburban
)

// Regions lists every valid region in display order.
var Regions = []Region{Urban, Suburban}

func (r Region) String() string {
	switch r {
	case Urban:
		return "urban"
	case Suburban:
		return "suburban"
	default:
		return "unknown"
	}
}

// ParseRegion accepts urban/suburban and the source labels 城市/郊区.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urban", "城市":
		return Urban, nil
	case "suburban", "郊区":
		return Suburban, nil
	default:
		return RegionUnknown, fmt.Errorf("unknown region %q", s)
	}
}

func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(b []byte) error {
	v, err := ParseRegion(string(b))
	if err != nil {
		*r = RegionUnknown
		return nil
	}
	*r = v
	return nil
}

var (
	loadingMultipliers = map[ParticleSize]float64{
		TSP:  0.74,
		PM10: 0.35,
		PM25: 0.053,
	}

	erosionMultipliers = map[ParticleSize]float64{
		TSP:  1.0,
		PM10: 0.5,
		PM25: 0.25,
	}

	roughnessLengths = map[Region]float64{
		Urban:    0.6,
		Suburban: 0.2,
	}
)

// LoadingMultiplier returns k_h for the loading/transport pathway.
func LoadingMultiplier(p ParticleSize) (float64, bool) {
	k, ok := loadingMultipliers[p]
	return k, ok
}

// ErosionMultiplier returns k_w for the wind-erosion pathway.
func ErosionMultiplier(p ParticleSize) (float64, bool) {
	k, ok := erosionMultipliers[p]
	return k, ok
}

// RoughnessLength returns z0 in metres for a region.
func RoughnessLength(r Region) (float64, bool) {
	z0, ok := roughnessLengths[r]
	return z0, ok
}

// MultiplierRow is one line of the particle-size reference table.
type MultiplierRow struct {
	ParticleSize ParticleSize `json:"particle_size"`
	Loading      float64      `json:"loading"`
	WindErosion  float64      `json:"wind_erosion"`
}

// RoughnessRow is one line of the roughness reference table.
type RoughnessRow struct {
	Region          Region  `json:"region"`
	RoughnessLength float64 `json:"roughness_length_m"`
}

// ReferenceTables is the read-only documentation shown next to results.
type ReferenceTables struct {
	ParticleSizeMultipliers []MultiplierRow `json:"particle_size_multipliers"`
	RoughnessLengths        []RoughnessRow  `json:"roughness_lengths"`
	MeasurementHeight       float64         `json:"measurement_height_m"`
	ControlEfficiency       float64         `json:"control_efficiency"`
}

// Tables returns a fresh copy of the static reference tables.
func Tables() ReferenceTables {
	t := ReferenceTables{
		ParticleSizeMultipliers: make([]MultiplierRow, 0, len(ParticleSizes)),
		RoughnessLengths:        make([]RoughnessRow, 0, len(Regions)),
		MeasurementHeight:       MeasurementHeight,
		ControlEfficiency:       ControlEfficiency,
	}
	for _, p := range ParticleSizes {
		t.ParticleSizeMultipliers = append(t.ParticleSizeMultipliers, MultiplierRow{
			ParticleSize: p,
			Loading:      loadingMultipliers[p],
			WindErosion:  erosionMultipliers[p],
		})
	}
	for _, r := range Regions {
		t.RoughnessLengths = append(t.RoughnessLengths, RoughnessRow{
			Region:          r,
			RoughnessLength: roughnessLengths[r],
		})
	}
	return t
}
