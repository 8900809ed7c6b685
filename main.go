package main

import (
	"os"

	"postboard/app/commands"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line and exits with its status.
func RealMain() {
	exit(commands.HandleCommand(os.Args[1:]))
}
