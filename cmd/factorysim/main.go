package main

import (
	"github.com/vsinha/factorysim/pkg/interfaces/cli/commands"
)

func main() {
	commands.Execute()
}
