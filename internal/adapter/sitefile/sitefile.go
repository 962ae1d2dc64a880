// Package sitefile reads assessment requests from TOML site files.
//
// A site file looks like:
//
//	case_ref = "MZL-2024-1127"
//	unit_abatement_cost = 2000
//
//	[site]
//	ground_wind_speed = 5.0
//	moisture_percent = 2.0
//	particle_size = "TSP"
//	handling_count = 1
//	load_per_handling_t = 2
//	yard_area_m2 = 453
//	region = "urban"
//	measured_wind_speed = 5.0
//	threshold_friction_velocity = 0.45
//	disturbance_count = 1
//
//	[coefficients]
//	hazard = 1
//	environment_function = 1
//	receptor_sensitivity = 1
//	exceedance = 1
package sitefile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
)

type file struct {
	ID                string                `toml:"id"`
	CaseRef           string                `toml:"case_ref"`
	UnitAbatementCost float64               `toml:"unit_abatement_cost"`
	Site              domain.SiteParameters `toml:"site"`
	Coefficients      domain.CoefficientSet `toml:"coefficients"`
}

// Load reads the site file at path.
func Load(path string) (domain.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Request{}, fmt.Errorf("open site file: %w", err)
	}
	defer f.Close()

	req, err := Decode(f)
	if err != nil {
		return domain.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Decode parses a site file. Keys that do not map to a request field are an
// error so that misspelled parameters are not silently replaced by zero.
func Decode(r io.Reader) (domain.Request, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return domain.Request{}, fmt.Errorf("decode site file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return domain.Request{}, fmt.Errorf("decode site file: unknown keys %s", strings.Join(keys, ", "))
	}
	return domain.Request{
		ID:      f.ID,
		CaseRef: f.CaseRef,
		Input: domain.Input{
			Site:              f.Site,
			Coefficients:      f.Coefficients,
			UnitAbatementCost: f.UnitAbatementCost,
		},
	}, nil
}

// Encode writes req as a site file.
func Encode(w io.Writer, req domain.Request) error {
	f := file{
		ID:                req.ID,
		CaseRef:           req.CaseRef,
		UnitAbatementCost: req.Input.UnitAbatementCost,
		Site:              req.Input.Site,
		Coefficients:      req.Input.Coefficients,
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode site file: %w", err)
	}
	return nil
}
