package main

import (
	"os"

	"github.com/tenauth/tenauth/cmd/tenauthctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
