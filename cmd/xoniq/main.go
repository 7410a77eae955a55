// Package main provides the xoniq command.
package main

import (
	"os"

	"github.com/leapstack-labs/xoniq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
