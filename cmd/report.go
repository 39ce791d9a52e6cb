package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"webullpnl/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	dataDir string
	asOf    string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized P&L report from Webull order exports" }
func (*reportCmd) Usage() string {
	return `wpnl report [-data-dir <dir>] [-as-of <date>]

  Reads every CSV order export under the data directory and prints the
  realized P&L of each transaction in chronological order, the positions
  still open, and the final realized total.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataDir, "data-dir", "data", "Directory containing the Webull CSV order exports")
	f.StringVar(&c.asOf, "as-of", "", "Close out option positions expired on or before this date (YYYY-MM-DD). Empty keeps them open.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := loadReport(c.dataDir, c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(report.Rows) == 0 {
		fmt.Println("No trades found.")
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
