package main

import (
	"os"

	"devicelink/cmd/devicelink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
