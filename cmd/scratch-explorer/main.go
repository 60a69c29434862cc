package main

import "github.com/scratchtools/scratch-explorer/internal/cli"

func main() {
	cli.Execute()
}
