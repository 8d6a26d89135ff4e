package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

// run executes the root command. Cobra error printing is silenced, so the
// failure has to be reported here before the process exits non-zero.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
