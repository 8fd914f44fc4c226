package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/richgo/task-cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// isolate clears environment overrides and returns a store path in a fresh
// directory that is also the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvFile, "")
	t.Setenv(config.EnvLogLevel, "")
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(dir, "todos.json")
}

func TestHelpOnMissingOrUnknownCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"help word", []string{"help"}},
		{"list with extra arg", []string{"list", "x"}},
		{"add without text", []string{"add"}},
		{"add with two args", []string{"add", "a", "b"}},
		{"update with one arg", []string{"update", "1"}},
		{"update with three args", []string{"update", "1", "a", "b"}},
		{"delete without id", []string{"delete"}},
		{"mark-done with two args", []string{"mark-done", "1", "2"}},
		{"mark-in-progress without id", []string{"mark-in-progress"}},
		{"unknown flag", []string{"list", "--bogus"}},
		{"unknown global flag", []string{"--bogus", "list"}},
		{"bad global flag value", []string{"--no-color=maybe", "list"}},
		{"global flag after command", []string{"list", "--file", "other.json"}},
		{"global flag without command", []string{"--no-color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Equal(t, helpText, res.stdout)
		})
	}
}

func TestExplicitHelpFlag(t *testing.T) {
	store := isolate(t)

	for _, args := range [][]string{
		{"--help"},
		{"-h"},
		{"--help", "list"},
		{"--no-color", "-h"},
	} {
		res := run(t, args...)
		assert.Equal(t, 1, res.code, args)
		assert.Equal(t, helpText, res.stdout, args)
	}
	assert.NoFileExists(t, store)
}

func TestTextStartingWithDash(t *testing.T) {
	isolate(t)

	for _, text := range []string{"- buy milk", "-x", "-h", "--file"} {
		res := run(t, "add", text)
		require.Equal(t, 0, res.code, text)
		assert.Empty(t, res.stdout, text)
	}

	res := run(t, "update", "2", "--help")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Task 2 updated.\n", res.stdout)

	res = run(t, "list")
	assert.Equal(t, "1: - buy milk [pending]\n2: --help [pending]\n3: -h [pending]\n4: --file [pending]\n", res.stdout)
}

func TestNegativeID(t *testing.T) {
	store := isolate(t)
	run(t, "add", "only")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	for _, args := range [][]string{
		{"delete", "-1"},
		{"update", "-1", "x"},
		{"mark-done", "-1"},
		{"mark-in-progress", "-1"},
	} {
		res := run(t, args...)
		assert.Equal(t, 1, res.code, args)
		assert.Equal(t, "No task found with ID: -1\n", res.stdout, args)
	}

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDigitSeparatedID(t *testing.T) {
	isolate(t)
	for i := 0; i < 10; i++ {
		run(t, "add", "filler")
	}

	res := run(t, "mark-done", "1_0")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Set status to 'done' for task 10\n", res.stdout)
}

func TestUsageErrorDoesNotCreateStore(t *testing.T) {
	store := isolate(t)

	run(t, "add")
	assert.NoFileExists(t, store)
}

func TestAddThenList(t *testing.T) {
	store := isolate(t)

	res := run(t, "add", "buy milk")
	require.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
	require.FileExists(t, store)

	res = run(t, "list")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "1: buy milk [pending]\n", res.stdout)

	data, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"task":"buy milk","status":"pending"}]`, string(data))
}

func TestListTwiceIsStable(t *testing.T) {
	isolate(t)
	run(t, "add", "one")
	run(t, "add", "two")

	first := run(t, "list")
	second := run(t, "list")
	assert.Equal(t, first, second)
	assert.Equal(t, "1: one [pending]\n2: two [pending]\n", first.stdout)
}

func TestListMissingStore(t *testing.T) {
	store := isolate(t)

	res := run(t, "list")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "No existing task(s).\n", res.stdout)
	assert.NoFileExists(t, store)
}

func TestListEmptyStoreFile(t *testing.T) {
	store := isolate(t)
	require.NoError(t, os.WriteFile(store, nil, 0o644))

	res := run(t, "list")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "No existing task(s).\n", res.stdout)
}

func TestListCorruptStore(t *testing.T) {
	store := isolate(t)
	require.NoError(t, os.WriteFile(store, []byte("{not json"), 0o644))

	res := run(t, "list")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "No existing task(s).\n", res.stdout)
}

func TestMistypedStoreRowsSurviveAdd(t *testing.T) {
	store := isolate(t)
	require.NoError(t, os.WriteFile(store, []byte(`[{"id": 1, "task": "keep me", "status": 5}]`), 0o644))

	res := run(t, "add", "new")
	require.Equal(t, 0, res.code)

	res = run(t, "list")
	assert.Equal(t, "1: keep me [5]\n2: new [pending]\n", res.stdout)
}

func TestMalformedStoreIsNotOverwritten(t *testing.T) {
	store := isolate(t)
	content := []byte(`{"id": 1, "task": "not a list"}`)
	require.NoError(t, os.WriteFile(store, content, 0o644))

	res := run(t, "add", "new")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "malformed store")

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, content, after)
}

func TestUpdate(t *testing.T) {
	isolate(t)
	run(t, "add", "draft")

	res := run(t, "update", "1", "final")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Task 1 updated.\n", res.stdout)

	res = run(t, "list")
	assert.Equal(t, "1: final [pending]\n", res.stdout)
}

func TestUpdateNonexistent(t *testing.T) {
	store := isolate(t)
	run(t, "add", "keep")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	res := run(t, "update", "99", "x")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "No task found with ID: 99\n", res.stdout)

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIDCommandsOnMissingStore(t *testing.T) {
	for _, args := range [][]string{
		{"update", "1", "x"},
		{"delete", "1"},
		{"mark-in-progress", "1"},
		{"mark-done", "1"},
	} {
		t.Run(args[0], func(t *testing.T) {
			store := isolate(t)

			res := run(t, args...)
			assert.Equal(t, 1, res.code)
			assert.Equal(t, "No existing task(s).\n", res.stdout)
			assert.NoFileExists(t, store)
		})
	}
}

func TestDeleteRenumbers(t *testing.T) {
	isolate(t)
	run(t, "add", "first")
	run(t, "add", "second")
	run(t, "add", "third")

	res := run(t, "delete", "2")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Task 2 deleted.\n", res.stdout)

	res = run(t, "list")
	assert.Equal(t, "1: first [pending]\n2: third [pending]\n", res.stdout)
}

func TestDeleteMalformedID(t *testing.T) {
	store := isolate(t)
	run(t, "add", "safe")
	before, err := os.ReadFile(store)
	require.NoError(t, err)

	res := run(t, "delete", "abc")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Task-ID has to be a number.\n", res.stdout)

	after, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMarkCommands(t *testing.T) {
	isolate(t)
	run(t, "add", "write tests")
	run(t, "add", "ship")

	res := run(t, "mark-in-progress", "1")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Set status to 'in progress' for task 1\n", res.stdout)

	res = run(t, "mark-done", "2")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "Set status to 'done' for task 2\n", res.stdout)

	res = run(t, "list")
	assert.Equal(t, "1: write tests [in progress]\n2: ship [done]\n", res.stdout)
}

func TestMarkNotFound(t *testing.T) {
	isolate(t)
	run(t, "add", "only")

	res := run(t, "mark-done", "3")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "No task found with ID: 3\n", res.stdout)
}

func TestFileFlag(t *testing.T) {
	isolate(t)
	other := filepath.Join(t.TempDir(), "elsewhere.json")

	res := run(t, "--file", other, "add", "remote")
	require.Equal(t, 0, res.code)
	assert.FileExists(t, other)
	assert.NoFileExists(t, "todos.json")

	res = run(t, "--file", other, "list")
	assert.Equal(t, "1: remote [pending]\n", res.stdout)

	res = run(t, "--file="+other, "list")
	assert.Equal(t, "1: remote [pending]\n", res.stdout)
}

func TestEnvOverridesStorePath(t *testing.T) {
	isolate(t)
	other := filepath.Join(t.TempDir(), "env.json")
	t.Setenv(config.EnvFile, other)

	res := run(t, "add", "from env")
	require.Equal(t, 0, res.code)
	assert.FileExists(t, other)
}

func TestConfigFileInWorkingDir(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".task-cli.yaml", []byte("store:\n  path: data/tasks.json\n"), 0o644))

	res := run(t, "add", "configured")
	require.Equal(t, 0, res.code)
	assert.FileExists(t, filepath.Join("data", "tasks.json"))
}

func TestMissingExplicitConfig(t *testing.T) {
	isolate(t)

	res := run(t, "--config", "nope.yaml", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "failed to read config")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	isolate(t)

	res := run(t, "--log-level", "loud", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "invalid log level")
}

func TestDebugLogsGoToStderr(t *testing.T) {
	isolate(t)

	res := run(t, "--log-level", "debug", "add", "traced")
	require.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "command=add")
	assert.Contains(t, res.stderr, "store=")
	assert.Contains(t, res.stderr, "saved tasks")
}

func TestDefaultRunIsQuietOnStderr(t *testing.T) {
	isolate(t)

	res := run(t, "add", "quiet")
	require.Equal(t, 0, res.code)
	assert.Empty(t, res.stderr)
}

func TestColorAlways(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".task-cli.yaml", []byte("color: always\n"), 0o644))
	run(t, "add", "paint")

	res := run(t, "list")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "\x1b[33mpending")

	res = run(t, "--no-color", "list")
	assert.Equal(t, "1: paint [pending]\n", res.stdout)
}
