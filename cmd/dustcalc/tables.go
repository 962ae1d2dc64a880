package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) tablesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the particle-size multipliers and roughness lengths",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return checkOutput(output)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			t := domain.Tables()
			if output == outputJSON {
				return writeJSON(a.out, t)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Particle size\tLoading k\tWind erosion k")
			for _, r := range t.ParticleSizeMultipliers {
				fmt.Fprintf(tw, "%s\t%v\t%v\n", r.ParticleSize, r.Loading, r.WindErosion)
			}
			fmt.Fprintln(tw, "\t\t")
			fmt.Fprintln(tw, "Region\tRoughness z0 (m)\t")
			for _, r := range t.RoughnessLengths {
				fmt.Fprintf(tw, "%s\t%v\t\n", r.Region, r.RoughnessLength)
			}
			fmt.Fprintln(tw, "\t\t")
			fmt.Fprintf(tw, "Measurement height (m)\t%v\t\n", t.MeasurementHeight)
			fmt.Fprintf(tw, "Control efficiency\t%v\t\n", t.ControlEfficiency)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}
