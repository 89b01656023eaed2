package main

import (
	"os"

	"github.com/rustyeddy/slicingpie/cmd/slicer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
