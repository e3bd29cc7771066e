// Package main is the entry point for the ntt CLI client.
package main

import (
	"github.com/donaldgifford/notice-tracker/cmd/ntt/cmd"
)

func main() {
	cmd.Execute()
}
