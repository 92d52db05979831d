package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/banana/pkg/types"
)

var (
	hashA = strings.Repeat("a", 40)
	hashB = strings.Repeat("b", 40)
)

// cliEnv holds per-test locations passed to every invocation.
type cliEnv struct {
	configDir string
	db        string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	return cliEnv{
		configDir: filepath.Join(dir, "config"),
		db:        filepath.Join(dir, "data", "banana.db"),
	}
}

// resetFlags puts every flag of cmd and its subcommands back to its default
// and clears Changed, since cobra keeps both across Execute calls.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue), f.Name)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

// run executes the root command with the env's global flags on freshly
// reset flag state.
func (e cliEnv) run(t *testing.T, jsonOut bool, args ...string) (string, error) {
	t.Helper()
	resetFlags(t, rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	full := []string{"--config-dir", e.configDir, "--db", e.db}
	if jsonOut {
		full = append(full, "--json")
	} else {
		full = append(full, "--json=false")
	}
	rootCmd.SetArgs(append(full, args...))

	err := rootCmd.Execute()
	closeLogging()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := newCLIEnv(t).run(t, false, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "banana 0.1.0")
}

func TestInitWritesDefaultConfig(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, false, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "database initialized")

	data, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: info")

	_, err = os.Stat(env.db)
	assert.NoError(t, err)

	// Second init is a no-op.
	_, err = env.run(t, false, "init")
	require.NoError(t, err)
}

func TestInsertSelectDump(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, false, "insert", "fixes", "commit_id="+hashA, "fixes="+hashB, "fixes_id="+hashB)
	require.NoError(t, err)
	_, err = env.run(t, false, "insert", "commit", "commit_id="+hashA, "subject=fix bug", "committed_at=1700000000")
	require.NoError(t, err)

	t.Run("select prints formatted rows", func(t *testing.T) {
		out, err := env.run(t, false, "select", "commit", "subject=fix bug")
		require.NoError(t, err)
		assert.Contains(t, out, `subject="fix bug"`)
		assert.Contains(t, out, "committed_at=1700000000")
	})

	t.Run("select emits JSON", func(t *testing.T) {
		out, err := env.run(t, true, "select", "fixes", "commit_id="+hashA)
		require.NoError(t, err)

		var rows []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, hashB, rows[0]["fixes"])
	})

	t.Run("select with no match emits empty JSON array", func(t *testing.T) {
		out, err := env.run(t, true, "select", "fixes", "fixes=nothing")
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(out))
	})

	t.Run("dump lists all tables", func(t *testing.T) {
		out, err := env.run(t, false, "dump")
		require.NoError(t, err)
		assert.Contains(t, out, "Table(_commit):")
		assert.Contains(t, out, "Table(_patch_id):")
		assert.Contains(t, out, "Table(_fixes):")
	})

	t.Run("duplicate insert is a user error", func(t *testing.T) {
		_, err := env.run(t, false, "insert", "commit", "commit_id="+hashA)
		assert.ErrorIs(t, err, types.ErrDuplicateRow)
		assert.Equal(t, exitUserError, exitCode(err))
	})

	t.Run("unknown table is a user error", func(t *testing.T) {
		_, err := env.run(t, false, "select", "authors")
		assert.ErrorIs(t, err, types.ErrTableNotFound)
		assert.Equal(t, exitUserError, exitCode(err))
	})
}

func TestRecordCommand(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := gogit.PlainInit(repoDir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "a.txt"), []byte("a\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	hash, err := wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test Author", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)

	env := newCLIEnv(t)
	out, err := env.run(t, false, "record", "--repo", repoDir)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 1 of 1 commits")

	out, err = env.run(t, false, "record", "--repo", repoDir, "HEAD")
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 0 of 1 commits")

	out, err = env.run(t, false, "select", "commit", "commit_id="+hash.String())
	require.NoError(t, err)
	assert.Contains(t, out, `subject="initial commit"`)
}

func TestExportImport(t *testing.T) {
	src := newCLIEnv(t)
	_, err := src.run(t, false, "insert", "commit", "commit_id="+hashA, "subject=one")
	require.NoError(t, err)
	_, err = src.run(t, false, "insert", "patch_id", "commit_id="+hashA, "patch_id="+hashB)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "jsonl")
	out, err := src.run(t, false, "export", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "_commit.jsonl"))

	dst := newCLIEnv(t)
	out, err = dst.run(t, false, "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 rows")

	out, err = dst.run(t, false, "select", "patch_id", "commit_id="+hashA)
	require.NoError(t, err)
	assert.Contains(t, out, `patch_id="`+hashB+`"`)

	out, err = dst.run(t, false, "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 rows")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, false, "--log-level", "debug", "init")
	require.NoError(t, err)
	assert.Equal(t, types.LogLevelDebug, storeConfig.LogLevel)

	_, err = env.run(t, false, "init")
	require.NoError(t, err)
	assert.Equal(t, types.LogLevelInfo, storeConfig.LogLevel)
	assert.False(t, rootCmd.PersistentFlags().Changed("log-level"))

	repoDir := t.TempDir()
	_, err = gogit.PlainInit(repoDir, false)
	require.NoError(t, err)
	_, err = env.run(t, false, "record", "--repo", repoDir)
	assert.Error(t, err, "empty repository has no HEAD")
	assert.Equal(t, repoDir, flagRepo)

	resetFlags(t, rootCmd)
	assert.Equal(t, ".", flagRepo)
	assert.False(t, flagJSON)
}

func TestParseAssignments(t *testing.T) {
	row, err := parseAssignments([]string{"subject=a=b", "authored_at=42", "fixes="})
	require.NoError(t, err)
	assert.Equal(t, types.Row{"subject": "a=b", "authored_at": int64(42), "fixes": ""}, row)

	_, err = parseAssignments([]string{"novalue"})
	assert.ErrorIs(t, err, errUsage)

	_, err = parseAssignments([]string{"committed_at=yesterday"})
	assert.ErrorIs(t, err, errUsage)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(types.ErrInvalidID))
	assert.Equal(t, exitUserError, exitCode(errUsage))
	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
}
