// Command feel evaluates FEEL expressions from the command line.
//
// Usage:
//
//	feel eval 'x + 1' --context '{"x": 5}'
//	feel parse '2 ** 3 ** 2'
//	echo '{"x": 5}' | feel eval 'x + 1' --context -
package main

import (
	"fmt"
	"os"

	"github.com/sandrolain/gofeel/internal/commands/root"
)

func main() {
	app := root.NewCommand()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
