package main

import (
	"os"

	"wirelint/cmd/wirelint/commands"
)

func main() {
	os.Exit(commands.Execute())
}
