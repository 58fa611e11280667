package main

import (
	"fmt"
	"os"

	"nap/cmd/nap/commands"
)

func main() {
	err := commands.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(commands.ExitCode(err))
}
