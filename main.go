// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"fmt"
	"os"

	"github.com/fluffyriot/hubsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
