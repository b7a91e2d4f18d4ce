package main

import (
	"github.com/mport/typeduel/internal/cli"
)

func main() {
	cli.Execute()
}
