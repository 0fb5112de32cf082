// Package main is the entry point for the pgw CLI client.
package main

import (
	"github.com/donaldgifford/perses-gateway/cmd/pgw/cmd"
)

func main() {
	cmd.Execute()
}
