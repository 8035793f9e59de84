// Package main is the replicalint entry point.
package main

import (
	"os"

	"github.com/replicalint/replicalint/cli"
)

func main() {
	os.Exit(cli.Execute())
}
