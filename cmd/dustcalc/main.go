// Command dustcalc computes dust-emission ecological damage assessments from
// the command line.
//
// Usage:
//
//	dustcalc compute --moisture 3.5 --region suburban
//	dustcalc compute --file yard.toml --output json
//	dustcalc batch requests.xlsx results.xlsx
//	dustcalc verify results.xlsx
//	dustcalc report --file yard.toml --out yard.pdf
//	dustcalc tables
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the writers and logger shared by every subcommand.
type app struct {
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	verbose bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "dustcalc",
		Short: "Estimate fugitive dust emissions from a bulk-material yard and value the ecological damage.",
		Long: `dustcalc estimates annual dust emissions from loading/transport and wind
erosion at an open bulk-material yard, and values the resulting ecological
damage as emission x unit abatement cost x adjustment coefficient.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		a.computeCmd(),
		a.batchCmd(),
		a.reportCmd(),
		a.verifyCmd(),
		a.tablesCmd(),
	)
	return root
}
