// Command wpnl generates realized P&L reports from Webull CSV order exports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"webullpnl/cmd"
)

func main() {
	// Shell completion. Returns immediately unless invoked by the shell.
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"data-dir": predict.Dirs("*"),
				"as-of":    predict.Something,
			}},
			"positions": {Flags: map[string]complete.Predictor{
				"data-dir": predict.Dirs("*"),
				"as-of":    predict.Something,
			}},
			"topic": {Args: predict.Set{"readme", "fifo", "expiration"}},
		},
	}
	completer.Complete("wpnl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
