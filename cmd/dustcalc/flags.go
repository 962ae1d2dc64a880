package main

import (
	"fmt"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/sitefile"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/spf13/pflag"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// inputFlags is the request assembled from command-line flags and an
// optional site file.
type inputFlags struct {
	in      domain.Input
	caseRef string
	file    string
}

func addInputFlags(fs *pflag.FlagSet, f *inputFlags) {
	f.in = domain.DefaultInput()
	bindInput(fs, &f.in)
	fs.StringVar(&f.caseRef, "case-ref", "", "case reference recorded with the assessment")
	fs.StringVarP(&f.file, "file", "f", "", "TOML site file; flags set explicitly override its values")
}

// bindInput registers one flag per input field, defaulting to the field's
// current value.
func bindInput(fs *pflag.FlagSet, in *domain.Input) {
	s, c := &in.Site, &in.Coefficients

	fs.Float64Var(&s.GroundWindSpeed, "ground-wind-speed", s.GroundWindSpeed, "mean ground-level wind speed u (m/s)")
	fs.Float64Var(&s.MoisturePercent, "moisture", s.MoisturePercent, "material moisture content M (%)")
	fs.Var(particleSizeValue{&s.ParticleSize}, "particle-size", "particle size category: TSP, PM10, PM2.5")
	fs.IntVar(&s.HandlingCount, "handling-count", s.HandlingCount, "loading/unloading events per year")
	fs.Float64Var(&s.LoadPerHandling, "load", s.LoadPerHandling, "material handled per event (t)")
	fs.Float64Var(&s.YardArea, "area", s.YardArea, "exposed yard area (m2)")
	fs.Var(regionValue{&s.Region}, "region", "surroundings: urban or suburban")
	fs.Float64Var(&s.MeasuredWindSpeed, "measured-wind-speed", s.MeasuredWindSpeed, "wind speed measured at 10 m (m/s)")
	fs.Float64Var(&s.ThresholdFrictionVelocity, "threshold", s.ThresholdFrictionVelocity, "threshold friction velocity u*t (m/s)")
	fs.IntVar(&s.DisturbanceCount, "disturbances", s.DisturbanceCount, "surface disturbances per year")

	fs.Float64Var(&c.Hazard, "hazard", c.Hazard, "pollutant hazard coefficient")
	fs.Float64Var(&c.EnvironmentFunction, "environment-function", c.EnvironmentFunction, "environment function coefficient")
	fs.Float64Var(&c.ReceptorSensitivity, "receptor-sensitivity", c.ReceptorSensitivity, "receptor sensitivity coefficient")
	fs.Float64Var(&c.Exceedance, "exceedance", c.Exceedance, "exceedance coefficient")

	fs.Float64Var(&in.UnitAbatementCost, "cost", in.UnitAbatementCost, "unit abatement cost (currency per t)")
}

// request returns the site file's request with explicitly set flags applied
// on top, or the flag values alone when no file is given.
func (f *inputFlags) request(fs *pflag.FlagSet) (domain.Request, error) {
	if f.file == "" {
		return domain.Request{CaseRef: f.caseRef, Input: f.in}, nil
	}

	req, err := sitefile.Load(f.file)
	if err != nil {
		return domain.Request{}, err
	}

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	bindInput(overlay, &req.Input)

	var setErr error
	fs.Visit(func(fl *pflag.Flag) {
		if setErr != nil || overlay.Lookup(fl.Name) == nil {
			return
		}
		setErr = overlay.Set(fl.Name, fl.Value.String())
	})
	if setErr != nil {
		return domain.Request{}, setErr
	}
	if fs.Changed("case-ref") {
		req.CaseRef = f.caseRef
	}
	return req, nil
}

func checkOutput(output string) error {
	switch output {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", output)
	}
}

type particleSizeValue struct{ p *domain.ParticleSize }

func (v particleSizeValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v particleSizeValue) Set(s string) error {
	p, err := domain.ParseParticleSize(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func (particleSizeValue) Type() string { return "size" }

type regionValue struct{ r *domain.Region }

func (v regionValue) String() string {
	if v.r == nil {
		return ""
	}
	return v.r.String()
}

func (v regionValue) Set(s string) error {
	r, err := domain.ParseRegion(s)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (regionValue) Type() string { return "region" }
