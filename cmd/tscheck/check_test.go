package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(out)
	return cmd
}

func TestRunCheckOnEmptyFileExitsClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.tsir.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"decls":[]}`), 0o644))

	var out bytes.Buffer
	code, err := runCheck(newTestCmd(&out), path, filepath.Join(dir, "missing.yaml"), false, true)

	require.NoError(t, err)
	require.Equal(t, exitClean, code)
}

func TestRunCheckOnMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	code, err := runCheck(newTestCmd(&out), filepath.Join(dir, "nope.tsir.json"), filepath.Join(dir, "missing.yaml"), false, true)

	require.Error(t, err)
	require.Equal(t, exitFatal, code)
}

func TestRunCheckOnUnknownIdentifierExitsRecovered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_ident.tsir.json")
	body := `{
		"decls": [
			{
				"kind": "graph",
				"name": "Net",
				"fns": [
					{
						"name": "forward",
						"params": [{"name": "x"}],
						"block": {"ret": {"kind": "call", "name": "not_a_real_fn"}}
					}
				]
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var out bytes.Buffer
	code, err := runCheck(newTestCmd(&out), path, filepath.Join(dir, "missing.yaml"), true, true)

	require.NoError(t, err)
	require.Equal(t, exitRecovered, code)
	require.Contains(t, out.String(), "TC005")
}
