package main

import (
	"os"

	"herocc/cmd/herocc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
