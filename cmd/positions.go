package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"webullpnl/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	dataDir string
	asOf    string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "open positions snapshot" }
func (*positionsCmd) Usage() string {
	return `wpnl positions [-data-dir <dir>] [-as-of <date>]

  Prints the positions still open after processing every order export:
  net side, quantity and average entry price per instrument.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataDir, "data-dir", "data", "Directory containing the Webull CSV order exports")
	f.StringVar(&c.asOf, "as-of", "", "Close out option positions expired on or before this date (YYYY-MM-DD). Empty keeps them open.")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := loadReport(c.dataDir, c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PositionsMarkdown(report.Positions))
	return subcommands.ExitSuccess
}
