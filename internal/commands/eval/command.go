// Package eval implements the "feel eval" subcommand: compile an
// expression, evaluate it against a JSON context, and print the result
// as JSON.
package eval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/sandrolain/gofeel"
	"github.com/sandrolain/gofeel/internal/config"
	"github.com/sandrolain/gofeel/pkg/evaluator"
	"github.com/sandrolain/gofeel/pkg/parser"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate a FEEL expression against a JSON context.",
		ArgsUsage: "EXPRESSION",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "context",
				Aliases: []string{"c"},
				Usage:   "variable bindings as a JSON object, or '-' to read from stdin",
				Value:   "{}",
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cliCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one expression argument, got %d", cliCtx.NArg())
	}
	source := cliCtx.Args().First()

	vars, err := readContext(cliCtx.String("context"))
	if err != nil {
		return err
	}

	expr, err := gofeel.Compile(source, parser.WithMaxDepth(cfg.ParseMaxDepth))
	if err != nil {
		logger.Error("compile failed", "expression", source, "error", err)
		return ErrCommandFailed
	}

	result, err := gofeel.EvaluateExpression(cliCtx.Context, expr, vars,
		evaluator.WithMaxDepth(cfg.EvalMaxDepth),
		evaluator.WithDebug(cfg.Debug),
		evaluator.WithLogger(logger),
	)
	if err != nil {
		logger.Error("evaluation failed", "expression", source, "error", err)
		return ErrCommandFailed
	}

	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cliCtx.App.Writer, string(out))
	return nil
}

// readContext parses the --context flag value. "-" reads the JSON
// object from stdin.
func readContext(raw string) (map[string]any, error) {
	if raw == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read context from stdin: %w", err)
		}
		raw = string(data)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	vars := map[string]any{}
	if err := dec.Decode(&vars); err != nil {
		return nil, fmt.Errorf("invalid context JSON: %w", err)
	}
	return vars, nil
}
