// Package main provides the entry point for the pkgdex CLI.
package main

import (
	"os"

	"github.com/pkgdex/pkgdex/cmd/pkgdex/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
