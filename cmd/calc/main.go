package main

import (
	"os"

	"go-chi-calculator/cmd/calc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
