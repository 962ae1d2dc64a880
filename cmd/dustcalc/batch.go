package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/dust-damage-service/internal/adapter/spreadsheet"
	"github.com/spf13/cobra"
)

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch INPUT.xlsx OUTPUT.xlsx",
		Short: "Assess every row of a workbook and write a Results workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runBatch(args[0], args[1])
		},
	}
}

func (a *app) runBatch(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	rows, err := spreadsheet.ReadRequests(in)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	a.logger.Debug("read requests", "path", inPath, "rows", len(rows))

	outcomes := spreadsheet.Evaluate(rows)

	var accepted, rejected int
	for _, o := range outcomes {
		if o.Assessment != nil {
			accepted++
			continue
		}
		rejected++
		if o.Err != nil {
			a.logger.Info("row not parsed", "row", o.Row, "error", o.Err)
		} else {
			a.logger.Info("row rejected", "row", o.Row, "errors", len(o.Rejection.Errors))
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := spreadsheet.WriteResults(out, outcomes); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d rows: %d accepted, %d rejected -> %s\n", len(outcomes), accepted, rejected, outPath)
	return nil
}
