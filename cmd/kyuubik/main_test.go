package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "bot", "user", "import"})
}

func TestUserAddAndImport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KYUUBIK_DB_PATH", filepath.Join(dir, "kyuubik.db"))
	t.Setenv("KYUUBIK_LOG_LEVEL", "error")
	t.Setenv("KYUUBIK_PRETTY_LOG", "false")

	out, err := runCLI(t, "user", "add", "alice", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "created user alice")

	_, err = runCLI(t, "user", "add", "alice", "--password", "secret")
	assert.Error(t, err, "duplicate username")

	_, err = runCLI(t, "user", "add", "al", "--password", "secret")
	assert.Error(t, err, "short username")

	path := filepath.Join(dir, "bookmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
`), 0o644))

	out, err = runCLI(t, "import", "bookmarks", path, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "1 added, 0 already saved")

	out, err = runCLI(t, "import", "bookmarks", path, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "0 added, 1 already saved")

	_, err = runCLI(t, "import", "bookmarks", path)
	assert.Error(t, err, "missing --user")
}

func TestBotRequiresToken(t *testing.T) {
	t.Setenv("KYUUBIK_TELEGRAM_TOKEN", "")
	assert.Panics(t, func() { _, _ = runCLI(t, "bot") })
}
