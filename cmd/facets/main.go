// facets is a small CLI for exploring a dataset file through the filter
// library: it prints the drill-down choices and the matching records for
// a given set of filter parameters.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
