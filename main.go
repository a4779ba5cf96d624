package main

import (
	"os"

	"github.com/elidoras/datacore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
