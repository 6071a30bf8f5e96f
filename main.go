package main

import (
	"os"

	"github.com/dmarkhas/resume-triage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
