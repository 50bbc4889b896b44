// Package main provides the cratesql command.
package main

import (
	"os"

	"github.com/leapstack-labs/cratesql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
