package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useWorkspace runs the command against a sqlite registry in a fresh
// directory, so state carries across invocations within one test.
func useWorkspace(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("PROCUREFLOW_LOGGER_LEVEL", "error")
	t.Setenv("PROCUREFLOW_LOGGER_OUTPUT_PATH", "stderr")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeed(t *testing.T) {
	useWorkspace(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seed record written")

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to seed")
}

func TestExportCommands(t *testing.T) {
	useWorkspace(t)

	out, err := run(t, "export", "--out", "registry.xlsx")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.True(t, strings.HasSuffix(path, filepath.Join("exports", "registry.xlsx")), path)
	assert.FileExists(t, path)

	out, err = run(t, "record", "pdf", "1001")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Procurement_Registry_1001.pdf"), out)

	out, err = run(t, "record", "xlsx", "1001")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Procurement_1001_Details.xlsx"), out)

	_, err = run(t, "record", "pdf", "42")
	assert.EqualError(t, err, "Record not found.")

	// a registry export merges back without duplicates
	out, err = run(t, "import", path, "--user", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "already exist")
}

func TestImportRequiresUserAndFile(t *testing.T) {
	useWorkspace(t)

	_, err := run(t, "import", "missing.xlsx")
	assert.Error(t, err)

	_, err = run(t, "import", "missing.xlsx", "--user", "bob")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUserCommands(t *testing.T) {
	useWorkspace(t)

	out, err := run(t, "user", "register", "--username", "alice", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "registered alice")

	_, err = run(t, "user", "register", "--username", "ALICE", "--password", "pw")
	assert.EqualError(t, err, "A user with this username already exists.")

	out, err = run(t, "user", "list")
	require.NoError(t, err)
	assert.Equal(t, "alice\n", out)
}

func TestBadConfig(t *testing.T) {
	useWorkspace(t)

	_, err := run(t, "--config", "nope.yaml", "seed")
	assert.Error(t, err)

	t.Setenv("PROCUREFLOW_DATABASE_DRIVER", "postgres")
	_, err = run(t, "seed")
	assert.Error(t, err)
}
