package main

import (
	"os"

	"github.com/rustyeddy/timedorder/cmd/timedorder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
