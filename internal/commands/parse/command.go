// Package parse implements the "feel parse" subcommand: compile an
// expression and print its AST as JSON, without evaluating it.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/sandrolain/gofeel"
	"github.com/sandrolain/gofeel/internal/config"
	"github.com/sandrolain/gofeel/pkg/parser"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a FEEL expression and print its AST as JSON.",
		ArgsUsage: "EXPRESSION",
		Action:    run,
	}
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cliCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one expression argument, got %d", cliCtx.NArg())
	}
	source := cliCtx.Args().First()

	expr, err := gofeel.Compile(source, parser.WithMaxDepth(cfg.ParseMaxDepth))
	if err != nil {
		fmt.Fprintln(cliCtx.App.ErrWriter, err)
		return ErrCommandFailed
	}

	out, err := json.MarshalIndent(expr.AST(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode AST: %w", err)
	}
	fmt.Fprintln(cliCtx.App.Writer, string(out))
	return nil
}
