package main

import (
	"github.com/custodia-labs/depreval-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
