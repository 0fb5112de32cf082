// Package main is the entry point for the perses-gateway server.
package main

import (
	"os"

	"github.com/donaldgifford/perses-gateway/cmd/perses-gateway/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
