package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/spf13/cobra"
)

// assessmentOutput is the JSON form of a computed assessment.
type assessmentOutput struct {
	domain.Assessment
	Formatted domain.FormattedResult `json:"formatted"`
}

func (a *app) computeCmd() *cobra.Command {
	var (
		flags  inputFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute one assessment from flags or a site file",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return checkOutput(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request(cmd.Flags())
			if err != nil {
				return err
			}
			a.logger.Debug("computing assessment", "case_ref", req.CaseRef, "file", flags.file)

			assessment, err := domain.Assess(req)
			if err != nil {
				return a.rejected(domain.Reject(req, err), output)
			}
			if output == outputJSON {
				return writeJSON(a.out, assessmentOutput{Assessment: assessment, Formatted: domain.Format(assessment.Result)})
			}
			return writeAssessmentText(a.out, assessment)
		},
	}
	addInputFlags(cmd.Flags(), &flags)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

// rejected reports a rejection and returns the command error.
func (a *app) rejected(r domain.Rejection, output string) error {
	if output == outputJSON {
		if err := writeJSON(a.out, r); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(a.errOut, 0, 4, 2, ' ', 0)
		for _, e := range r.Errors {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Kind, e.Field, e.Reason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return fmt.Errorf("assessment %s rejected with %d error(s)", r.ID, len(r.Errors))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeAssessmentText(w io.Writer, a domain.Assessment) error {
	f := domain.Format(a.Result)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if a.CaseRef != "" {
		fmt.Fprintf(tw, "Case reference\t%s\n", a.CaseRef)
	}
	fmt.Fprintf(tw, "Assessment ID\t%s\n", a.ID)
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "Loading and transport\t")
	fmt.Fprintf(tw, "  Emission factor E_h\t%s kg/t\n", f.LoadingEmissionFactor)
	fmt.Fprintf(tw, "  Emission W_h\t%s kg (%s t)\n", f.LoadingMassKg, f.LoadingMassT)

	fmt.Fprintln(tw, "Wind erosion\t")
	fmt.Fprintf(tw, "  Friction velocity u*\t%s m/s\n", f.FrictionVelocity)
	fmt.Fprintf(tw, "  Erosion potential P\t%s g/m2\n", f.Potential)
	fmt.Fprintf(tw, "  Total potential\t%s g/m2\n", f.TotalPotential)
	fmt.Fprintf(tw, "  Emission factor E_w\t%s kg/m2\n", f.ErosionEmissionFactor)
	fmt.Fprintf(tw, "  Emission W_w\t%s kg (%s t)\n", f.ErosionMassKg, f.ErosionMassT)

	fmt.Fprintln(tw, "Damage\t")
	fmt.Fprintf(tw, "  Total emission W\t%s t\n", f.TotalEmissionT)
	fmt.Fprintf(tw, "  Adjustment coefficient\t%s\n", f.AdjustmentCoefficient)
	fmt.Fprintf(tw, "  Unit abatement cost\t%s per t\n", f.UnitAbatementCost)
	fmt.Fprintf(tw, "  Ecological damage D\t%s\n", f.DamageAmount)

	return tw.Flush()
}
