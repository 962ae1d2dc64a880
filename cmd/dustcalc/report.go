package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/report"
	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		flags   inputFlags
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report for one assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request(cmd.Flags())
			if err != nil {
				return err
			}
			assessment, err := domain.Assess(req)
			if err != nil {
				return a.rejected(domain.Reject(req, err), outputText)
			}

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := report.Render(out, assessment); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s (%s, damage %s)\n", outPath, assessment.ID, domain.Format(assessment.Result).DamageAmount)
			return nil
		},
	}
	addInputFlags(cmd.Flags(), &flags)
	cmd.Flags().StringVar(&outPath, "out", "report.pdf", "PDF output path")
	return cmd
}
