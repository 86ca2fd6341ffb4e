package main

import (
	"github.com/turtacn/xpx/cmd/cli"
)

// main is the entry point for the xpxctl command-line tool.
func main() {
	cli.Execute()
}
