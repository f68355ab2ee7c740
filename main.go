package main

import (
	"os"

	"github.com/jhaeusler/sessionbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
