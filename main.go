package main

import (
	"os"

	"github.com/quentinv/taxitrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
