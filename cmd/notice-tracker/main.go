// Package main is the entry point for the notice-tracker server.
package main

import (
	"os"

	"github.com/donaldgifford/notice-tracker/cmd/notice-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
