package main

import "github.com/mcoot/gemfall/internal/cli"

func main() {
	cli.Execute()
}
