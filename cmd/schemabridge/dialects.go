package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/schemabridge/schemabridge/pkg/dialect"
)

// dialectsCommand creates the dialects command, listing every dialect name
// the import command accepts.
func dialectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "dialects",
		Usage: "List supported SQL dialects",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, name := range dialect.Names() {
				fmt.Fprintln(cmd.Writer, name)
			}
			return nil
		},
	}
}
