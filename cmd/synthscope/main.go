// Package main provides the synthscope command.
package main

import (
	"os"

	"github.com/vinicius-lino-figueiredo/synthscope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
