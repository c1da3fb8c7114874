// Command etl centralises the retail datasets: it migrates the
// target schema, runs the extract/clean/load pipeline, and executes
// the analytical report suite.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
