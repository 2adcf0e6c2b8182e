package main

import (
	"os"

	"github.com/btorlabs/btoropt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
