package main

import (
	"os"

	"github.com/teipress/teipress/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
