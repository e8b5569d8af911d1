package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestDialectsCommand(t *testing.T) {
	out, err := runCommand(t, dialectsCommand())
	require.NoError(t, err)

	golden.Assert(t, out, "dialects.txt")
}
