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
