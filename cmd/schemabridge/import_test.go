package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runCommand(t *testing.T, command *cli.Command, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "test",
		Flags:  command.Flags,
		Action: command.Action,
		Writer: &buf,
	}

	err := app.Run(context.Background(), append([]string{"test"}, args...))
	return buf.String(), err
}

func TestImportCommand_RequiresPath(t *testing.T) {
	_, err := runCommand(t, importCommand())
	require.Error(t, err)
	require.Contains(t, err.Error(), "exactly one path argument is required")
}

func TestImportCommand_File(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "schema.sql")
	ddl := `CREATE TABLE users (
		id INT PRIMARY KEY,
		email VARCHAR(255) NOT NULL
	) TBLPROPERTIES ('quality' = 'gold');`
	require.NoError(t, os.WriteFile(sqlFile, []byte(ddl), 0o644))

	out, err := runCommand(t, importCommand(), sqlFile)
	require.NoError(t, err)

	require.Contains(t, out, "name: users")
	require.Contains(t, out, "name: email")
	require.Contains(t, out, "data_type: VARCHAR(255)")
	require.Contains(t, out, "- gold")
}

func TestImportCommand_OutFile(t *testing.T) {
	dir := t.TempDir()
	sqlFile := filepath.Join(dir, "schema.sql")
	outFile := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(sqlFile, []byte("CREATE TABLE t (id INT)"), 0o644))

	out, err := runCommand(t, importCommand(), "--out", outFile, sqlFile)
	require.NoError(t, err)
	require.Empty(t, out)

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	require.Contains(t, string(written), "name: t")
}

func TestImportCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, importCommand(), filepath.Join(t.TempDir(), "nope.sql"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read file")
}

func TestImportCommand_NoTables(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "empty.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("SELECT 1;"), 0o644))

	_, err := runCommand(t, importCommand(), sqlFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no tables found")
}
