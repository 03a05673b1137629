// Command dailytask is a small daily to-do list for the terminal.
// `go install github.com/Makepad-fr/dailytask@latest` builds this file;
// cmd/dailytask is the same program.
package main

import (
	"fmt"
	"os"

	"github.com/Makepad-fr/dailytask/internal/app"
)

func main() {
	code := app.Main(os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
