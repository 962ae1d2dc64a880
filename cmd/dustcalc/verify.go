package main

import (
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/spreadsheet"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/spf13/cobra"
)

const defaultTolerance = 1e-6

func (a *app) verifyCmd() *cobra.Command {
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "verify RESULTS.xlsx",
		Short: "Recompute a Results workbook and check every recorded value",
		Long: `verify recomputes each accepted row of a Results workbook and compares
every recorded value within a relative tolerance. It also checks that the
recorded total equals the sum of both pathways and that the recorded damage
equals total x cost x adjustment coefficient. Rejected rows must still fail
validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runVerify(args[0], tolerance)
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", defaultTolerance, "relative tolerance")
	return cmd
}

func (a *app) runVerify(path string, tolerance float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := spreadsheet.ReadResults(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	failed := 0
	for _, row := range rows {
		problems := checkRow(row, tolerance)
		if len(problems) == 0 {
			a.logger.Debug("row verified", "row", row.Row)
			continue
		}
		failed++
		for _, p := range problems {
			fmt.Fprintf(a.out, "row %d: %s\n", row.Row, p)
		}
	}

	fmt.Fprintf(a.out, "verified %d rows, %d failed\n", len(rows), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed verification", failed, len(rows))
	}
	return nil
}

// checkRow returns a description of every mismatch in one results row.
func checkRow(row spreadsheet.ResultRow, tol float64) []string {
	switch row.Status {
	case domain.StatusAccepted:
	case domain.StatusRejected:
		if _, err := domain.Compute(row.Request.Input); err == nil {
			return []string{"recorded as rejected but the input is valid"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("unknown status %q", row.Status)}
	}

	got, err := domain.Compute(row.Request.Input)
	if err != nil {
		return []string{fmt.Sprintf("recorded as accepted but recompute failed: %v", err)}
	}

	rec := row.Recorded
	var problems []string
	check := func(name string, recorded, computed float64) {
		if !withinTolerance(recorded, computed, tol) {
			problems = append(problems, fmt.Sprintf("%s recorded %v, computed %v", name, recorded, computed))
		}
	}

	check("loading emission factor", rec.Emission.Loading.EmissionFactor, got.Emission.Loading.EmissionFactor)
	check("loading mass", rec.Emission.Loading.MassT, got.Emission.Loading.MassT)
	check("friction velocity", rec.Emission.Erosion.FrictionVelocity, got.Emission.Erosion.FrictionVelocity)
	check("erosion potential", rec.Emission.Erosion.Potential, got.Emission.Erosion.Potential)
	check("erosion emission factor", rec.Emission.Erosion.EmissionFactor, got.Emission.Erosion.EmissionFactor)
	check("erosion mass", rec.Emission.Erosion.MassT, got.Emission.Erosion.MassT)
	check("total emission", rec.Emission.TotalEmissionT, got.Emission.TotalEmissionT)
	check("adjustment coefficient", rec.Damage.AdjustmentCoefficient, got.Damage.AdjustmentCoefficient)
	check("damage", rec.Damage.Amount, got.Damage.Amount)

	check("total = loading + erosion", rec.Emission.TotalEmissionT,
		rec.Emission.Loading.MassT+rec.Emission.Erosion.MassT)
	check("damage = total x cost x coefficient", rec.Damage.Amount,
		rec.Emission.TotalEmissionT*rec.Damage.UnitAbatementCost*rec.Damage.AdjustmentCoefficient)

	return problems
}

func withinTolerance(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}
