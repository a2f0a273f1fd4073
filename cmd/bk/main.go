package main

import (
	"os"

	"github.com/bnema/bilive-keeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
