package main

import (
	"fmt"
	"io"
	"os"

	"github.com/zurustar/bfi/pkg/app"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the interpreter and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	application := app.New(stdin, stdout, stderr)
	if err := application.Run(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
