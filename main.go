// Command ison converts, validates, and stores documents in the ISON
// tabular text format.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/maheshvaikri-code/ison/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures through the output formatter;
		// anything else (flag errors, bad --format) has not been shown yet.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
