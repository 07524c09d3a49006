package main

import (
	"os"

	"github.com/MikeSquared-Agency/convoset/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
