package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/schemabridge/schemabridge/pkg/sqlimport"
)

// importCommand creates the import command for extracting schemas from a
// SQL file. The extracted tables are written as YAML to stdout or to the
// file given with --out. Tables created through dynamic name expressions
// are reported on stderr so the caller knows which names need confirming.
func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Extract table schemas from a SQL file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dialect",
				Aliases: []string{"d"},
				Usage:   "SQL dialect of the input",
				Value:   "generic",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write output to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one path argument is required")
			}

			sql, err := readInput(cmd.Args().First())
			if err != nil {
				return err
			}

			imp := sqlimport.New(cmd.String("dialect"))
			res, err := imp.Extract(sql)
			if err != nil {
				return errors.Wrapf(err, "failed to extract schema from %s", cmd.Args().First())
			}

			for _, req := range res.NameRequests {
				slog.Warn("table needs a confirmed name",
					"suggested", req.SuggestedName,
					"expression", req.Expression,
				)
			}

			return writeResult(res, cmd.String("out"), cmd.Writer)
		},
	}
}

// readInput reads the SQL source: a file path, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file: %s", path)
	}
	return string(b), nil
}

// writeResult marshals the extraction result as YAML to the output file,
// or to writer when no file is given.
func writeResult(res *sqlimport.Result, out string, writer io.Writer) error {
	b, err := yaml.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to marshal result")
	}

	if out == "" {
		_, err = writer.Write(b)
		return errors.Wrap(err, "failed to write output")
	}

	if err := os.WriteFile(out, b, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write file: %s", out)
	}
	return nil
}
