// Package cmd implements the CLI application to report realized P&L from
// Webull order exports.
package cmd

import (
	"fmt"

	"github.com/google/subcommands"

	"webullpnl"
	"webullpnl/date"
	"webullpnl/webull"
)

// Commands lists every subcommand of the wpnl tool.
// A main package registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
	subcommands.CommandsCommand(),
	&reportCmd{},
	&positionsCmd{},
	&topicCmd{},
}

// loadReport reads the exports under dataDir and runs the engine. An empty
// asOf disables the expiration sweep.
func loadReport(dataDir, asOf string) (*webullpnl.Report, error) {
	trades, err := webull.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("cannot load order exports: %w", err)
	}

	var opts webullpnl.Options
	if asOf != "" {
		d, err := date.Parse(asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid -as-of date: %w", err)
		}
		opts.AsOf = d
	}
	return webullpnl.NewReport(trades, opts)
}
