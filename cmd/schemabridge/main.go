package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", version)
		fmt.Fprintln(cmd.Writer, "Commit:", commit)
		fmt.Fprintln(cmd.Writer, "Date:", date)
	}

	app := &cli.Command{
		Name:  "schemabridge",
		Usage: "Extract table schemas from SQL DDL scripts",
		Description: `schemabridge parses CREATE TABLE statements from SQL scripts across
dialects and emits a structured schema model: flattened columns, key and
constraint markers, table properties, and medallion layer tags.`,
		Version: version,
		Commands: []*cli.Command{
			importCommand(),
			dialectsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
