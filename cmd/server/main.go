package main

import (
	"os"

	"github.com/mcoot/gemfall/internal/cli"
)

// server is "gemfall serve" configured entirely from the environment
func main() {
	root := cli.NewRootCmd()
	root.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
