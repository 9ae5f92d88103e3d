package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jsonview/internal/config"
	"jsonview/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with a config path that does not exist, so
// every run starts from the defaults.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err := cmd.Execute()
	return testutils.StripANSI(stdout.String()), testutils.StripANSI(stderr.String()), err
}

func TestListCommand(t *testing.T) {
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())

	out, _, err := run(t, "list", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "a.json\nbroken.json\nnested/c.json\n", out)

	out, _, err = run(t, "--base", srv.URL, "list", "--json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"a.json", "broken.json", "nested/c.json"}, names)
}

func TestListCommandFromDirectory(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)

	out, _, err := run(t, "list", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "nested/c.json")
}

func TestListCommandEmpty(t *testing.T) {
	srv := testutils.NewFixtureServer(t, map[string]string{"files.json": `[]`})

	out, errOut, err := run(t, "list", srv.URL)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No files found")

	out, _, err = run(t, "list", srv.URL, "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestListCommandFailure(t *testing.T) {
	srv := testutils.NewFixtureServer(t, map[string]string{})

	_, _, err := run(t, "list", srv.URL)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "error loading file list: "), err.Error())
}

func TestShowCommand(t *testing.T) {
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())

	out, _, err := run(t, "--base", srv.URL, "show", "a.json", "--highlight=false")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": 1\n}\n", out)

	out, _, err = run(t, "--base", srv.URL, "show", "nested/c.json", "--indent", "0")
	require.NoError(t, err)
	assert.Equal(t, "[true,null,\"s\"]\n", out)
}

func TestShowCommandErrors(t *testing.T) {
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())

	_, _, err := run(t, "--base", srv.URL, "show", "broken.json")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "error loading broken.json: "), err.Error())

	_, _, err = run(t, "--base", srv.URL, "show", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")

	_, _, err = run(t, "--base", srv.URL, "show", "a.json", "--indent", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indent")
}

func TestGetCommand(t *testing.T) {
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())
	dir := t.TempDir()

	out, _, err := run(t, "--base", srv.URL, "get", "a.json", "nested/c.json", "--dir", dir, "--jobs", "2")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "a.json"))

	data, err := os.ReadFile(filepath.Join(dir, "c.json"))
	require.NoError(t, err)
	assert.Equal(t, `[true,null,"s"]`, string(data))

	// Second run renames instead of overwriting
	_, _, err = run(t, "--base", srv.URL, "get", "a.json", "--dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "a (1).json"))

	out, _, err = run(t, "--base", srv.URL, "get", "a.json", "--dir", dir, "--collision", "skip")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
}

func TestGetCommandPartialFailure(t *testing.T) {
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())
	dir := t.TempDir()

	out, _, err := run(t, "--base", srv.URL, "get", "a.json", "missing.json", "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 downloads failed", err.Error())
	assert.Contains(t, out, "missing.json:")
	assert.FileExists(t, filepath.Join(dir, "a.json"))
	assert.NoFileExists(t, filepath.Join(dir, "missing.json"))
}

func TestManifestCommand(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"b.json":         `{}`,
		"a.json":         `{}`,
		"notes.txt":      `x`,
		"sub/c.json":     `[]`,
		".hidden/d.json": `[]`,
	})

	out, _, err := run(t, "manifest", dir, "--stdout")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Equal(t, []string{"a.json", "b.json", "sub/c.json"}, names)
	assert.NoFileExists(t, filepath.Join(dir, "files.json"))

	out, _, err = run(t, "manifest", dir, "--include", "sub/**")
	require.NoError(t, err)
	assert.Contains(t, out, "1 files")

	data, err := os.ReadFile(filepath.Join(dir, "files.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &names))
	assert.Equal(t, []string{"sub/c.json"}, names)
}

func TestManifestCommandMissingDir(t *testing.T) {
	_, _, err := run(t, "manifest", filepath.Join(t.TempDir(), "nope"), "--stdout")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "init"})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, path)

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.New().Source.Manifest, loaded.Source.Manifest)
	assert.Equal(t, config.New().Source.Timeout, loaded.Source.Timeout)

	cmd = NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "init"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cmd = NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "init", "--force"})
	assert.NoError(t, cmd.Execute())
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer:\n  indent: 99\n"), 0644))
	srv := testutils.NewFixtureServer(t, testutils.DefaultFiles())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", path, "--base", srv.URL, "show", "a.json", "--highlight=false"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, testutils.StripANSI(errOut.String()), "Using default settings")
	assert.Equal(t, "{\n  \"x\": 1\n}\n", out.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, isTerminal(w))
}
