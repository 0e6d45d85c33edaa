package main

import (
	"os"

	"github.com/rustyeddy/sltp/cmd/sltp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
