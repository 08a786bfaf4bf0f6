package root

import (
	"github.com/sandrolain/gofeel/internal/commands/eval"
	"github.com/sandrolain/gofeel/internal/commands/parse"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "feel",
		Usage: "Evaluate FEEL (DMN) expressions.",
		Commands: []*cli.Command{
			eval.NewCommand(),
			parse.NewCommand(),
		},
	}
}
