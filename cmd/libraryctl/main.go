// Command libraryctl talks to the library backend from a terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(readTerminalPassword).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
