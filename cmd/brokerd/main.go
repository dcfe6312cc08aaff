package main

import (
	"os"

	"github.com/rustyeddy/brokerd/cmd/brokerd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
