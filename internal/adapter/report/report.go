// Package report renders a computed assessment as a printable PDF.
package report

import (
	"fmt"
	"io"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/phpdave11/gofpdf"
)

const (
	title      = "Dust Emission Ecological Damage Assessment"
	labelWidth = 110.0
	lineHeight = 6.0
	sectionGap = 4.0
	dateLayout = "2006-01-02 15:04 MST"
	fontFamily = "Helvetica"
)

// ContentType is the MIME type of rendered reports.
const ContentType = "application/pdf"

// Render writes a one-page A4 report for a: the inputs of each stage, every
// intermediate value, and the damage amount.
func Render(w io.Writer, a domain.Assessment) error {
	f := domain.Format(a.Result)
	in := a.Input
	site := in.Site

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetCreator("dustcalc", false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont(fontFamily, "", 11)
	if a.CaseRef != "" {
		line(pdf, "Case reference", a.CaseRef)
	}
	line(pdf, "Assessment ID", a.ID)
	line(pdf, "Computed at", a.ComputedAt.Format(dateLayout))

	section(pdf, "Loading and transport")
	line(pdf, "Ground wind speed u (m/s)", num(site.GroundWindSpeed))
	line(pdf, "Moisture content M (%)", num(site.MoisturePercent))
	line(pdf, "Particle size", site.ParticleSize.String())
	line(pdf, "Multiplier k", num(a.Result.Emission.Loading.Multiplier))
	line(pdf, "Handling events per year", fmt.Sprint(site.HandlingCount))
	line(pdf, "Load per handling (t)", num(site.LoadPerHandling))
	line(pdf, "Emission factor E_h (kg/t)", f.LoadingEmissionFactor)
	line(pdf, "Emission W_h (kg)", f.LoadingMassKg)
	line(pdf, "Emission W_h (t)", f.LoadingMassT)

	section(pdf, "Wind erosion")
	line(pdf, "Region", site.Region.String())
	line(pdf, "Roughness length z0 (m)", num(a.Result.Emission.Erosion.RoughnessLength))
	line(pdf, "Measured wind speed (m/s)", num(site.MeasuredWindSpeed))
	line(pdf, "Friction velocity u* (m/s)", f.FrictionVelocity)
	line(pdf, "Threshold friction velocity u*t (m/s)", num(site.ThresholdFrictionVelocity))
	line(pdf, "Erosion potential P (g/m2)", f.Potential)
	line(pdf, "Disturbances per year", fmt.Sprint(site.DisturbanceCount))
	line(pdf, "Total potential (g/m2)", f.TotalPotential)
	line(pdf, "Multiplier k", num(a.Result.Emission.Erosion.Multiplier))
	line(pdf, "Emission factor E_w (kg/m2)", f.ErosionEmissionFactor)
	line(pdf, "Yard area (m2)", num(site.YardArea))
	line(pdf, "Emission W_w (kg)", f.ErosionMassKg)
	line(pdf, "Emission W_w (t)", f.ErosionMassT)

	section(pdf, "Damage valuation")
	line(pdf, "Total emission W (t)", f.TotalEmissionT)
	line(pdf, "Hazard", num(in.Coefficients.Hazard))
	line(pdf, "Environment function", num(in.Coefficients.EnvironmentFunction))
	line(pdf, "Receptor sensitivity", num(in.Coefficients.ReceptorSensitivity))
	line(pdf, "Exceedance", num(in.Coefficients.Exceedance))
	line(pdf, "Adjustment coefficient gamma", f.AdjustmentCoefficient)
	line(pdf, "Unit abatement cost (per t)", f.UnitAbatementCost)

	pdf.Ln(sectionGap)
	pdf.SetFont(fontFamily, "B", 12)
	line(pdf, "Ecological damage D", f.DamageAmount)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, name string) {
	pdf.Ln(sectionGap)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.Cell(0, lineHeight+1, name)
	pdf.Ln(lineHeight + 2)
	pdf.SetFont(fontFamily, "", 11)
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, value, "", 1, "R", false, 0, "")
}

func num(v float64) string {
	return fmt.Sprint(v)
}
