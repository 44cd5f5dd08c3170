package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karta/internal/diag"
	"karta/internal/driver"
	"karta/internal/source"
)

const sampleDoc = `{
  .server = { .host = "localhost", .port = 8080 },
  .ratio = 0.5,
  .grade = 'B',
  .tags = [.fast, .small],
  .debug = .nil
}
`

// sandbox moves into a fresh directory with its own cache location.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runKarta(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestQueryCommand(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "svc.karta"), sampleDoc)

	cases := []struct {
		args []string
		want string
	}{
		{[]string{doc, ".server.port"}, "8080\n"},
		{[]string{doc, ".server.host"}, "localhost\n"},
		{[]string{doc, ".ratio"}, "0.5\n"},
		{[]string{doc, ".grade"}, "B\n"},
		{[]string{doc, ".grade", "--as", "int"}, "66\n"},
		{[]string{doc, ".debug"}, ".nil\n"},
		{[]string{doc, ".debug", "--as", "bool"}, "false\n"},
		{[]string{doc, ".server", "--as", "bool"}, "true\n"},
		{[]string{doc, ".server.tags"}, ".nil\n"},
		{[]string{doc, ".missing", "--strict"}, ".nil\n"},
		{[]string{doc, ".tags", "--as", "list"}, ".fast\n.small\n"},
		{[]string{doc, ".server"}, "{\n  \".host\": \"localhost\",\n  \".port\": 8080\n}\n"},
	}
	for _, tc := range cases {
		out, _, err := runKarta(t, append([]string{"query"}, tc.args...)...)
		require.NoError(t, err, "%v", tc.args)
		assert.Equal(t, tc.want, out, "%v", tc.args)
	}
}

func TestQueryCommandUnknownName(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "svc.karta"), sampleDoc)

	out, _, err := runKarta(t, "query", doc, ".server.missing")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \".host\": \"localhost\",\n  \".port\": 8080\n}\n", out)

	writeFile(t, filepath.Join(dir, "karta.toml"), "[parse]\nstrict_fields = true\n")
	out, _, err = runKarta(t, "query", doc, ".server.missing")
	require.NoError(t, err)
	assert.Equal(t, ".nil\n", out)

	out, _, err = runKarta(t, "query", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "strict_fields")
}

func TestQueryCommandErrors(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "svc.karta"), sampleDoc)

	_, _, err := runKarta(t, "query", doc, ".ratio", "--as", "string")
	require.EqualError(t, err, "cannot convert Float to string")

	_, _, err = runKarta(t, "query", doc, "server")
	require.EqualError(t, err, `invalid path "server"`)

	_, _, err = runKarta(t, "query", doc, ".ratio.port")
	require.EqualError(t, err, "cannot call `get` on Float type AST")

	_, _, err = runKarta(t, "query", doc, ".ratio", "--as", "nope")
	require.EqualError(t, err, "unknown conversion: nope")
}

func TestParseCommandReportsDiagnostics(t *testing.T) {
	dir := sandbox(t)
	bad := writeFile(t, filepath.Join(dir, "bad.karta"), "{ .a 1 }")

	_, stderr, err := runKarta(t, "parse", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Assign, got Integer")
	assert.Contains(t, stderr, "bad.karta:1:6")
}

func TestParseCommandTree(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "one.karta"), "{ .a = 1 }")

	out, _, err := runKarta(t, "parse", doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Map #"), out)
	assert.Contains(t, out, ".a: Int(1)")
}

func TestTokenizeCommandJSON(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "t.karta"), "[1]")

	out, _, err := runKarta(t, "tokenize", "--format", "json", doc)
	require.NoError(t, err)
	assert.Contains(t, out, `"LeftSquare"`)
	assert.Contains(t, out, `"EndOfFile"`)
	assert.Contains(t, out, `"class": "punct"`)
}

func TestExportCommand(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "svc.karta"), sampleDoc)

	out, _, err := runKarta(t, "export", "--format", "json", "--nil-as-null", doc)
	require.NoError(t, err)
	want := `{
  ".server": {
    ".host": "localhost",
    ".port": 8080
  },
  ".ratio": 0.5,
  ".grade": "B",
  ".tags": [
    ".fast",
    ".small"
  ],
  ".debug": null
}
`
	assert.Equal(t, want, out)

	yamlOut, _, err := runKarta(t, "export", doc)
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "  .port: 8080\n")
	assert.Contains(t, yamlOut, ".debug: .nil\n")

	target := filepath.Join(dir, "out.json")
	_, stderr, err := runKarta(t, "export", "--format", "json", "-o", target, doc)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote "+target)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), `".port": 8080`)
}

func TestCompileThenQuerySnapshot(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "svc.karta"), sampleDoc)

	out, _, err := runKarta(t, "compile", doc)
	require.NoError(t, err)
	snap := filepath.Join(dir, "svc.kbin")
	assert.True(t, strings.HasPrefix(out, "wrote "+snap), out)

	fromSource, _, err := runKarta(t, "query", doc, ".server.port")
	require.NoError(t, err)
	fromSnapshot, _, err := runKarta(t, "query", snap, ".server.port")
	require.NoError(t, err)
	assert.Equal(t, fromSource, fromSnapshot)

	require.NoError(t, os.WriteFile(snap, []byte("garbage"), 0o600))
	_, _, err = runKarta(t, "query", snap, ".server")
	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, filepath.Join(dir, "src", "ok.karta"), sampleDoc)
	writeFile(t, filepath.Join(dir, "src", "bad.karta"), "[1, 2")

	out, stderr, err := runKarta(t, "check", "--ui", "off", "src")
	require.EqualError(t, err, "1 of 2 files failed")
	assert.Equal(t, "checked 2 files: 1 ok, 1 failed, 0 cached\n", out)
	assert.Contains(t, stderr, "bad.karta")

	out, _, err = runKarta(t, "check", "--ui", "off", "src")
	require.Error(t, err)
	assert.Equal(t, "checked 2 files: 1 ok, 1 failed, 2 cached\n", out)

	out, _, err = runKarta(t, "check", "--ui", "off", "--no-cache", "--format", "json", "src")
	require.Error(t, err)
	assert.Contains(t, out, `"count": 1`)
	assert.Contains(t, out, `"severity": "ERROR"`)

	_, _, err = runKarta(t, "clean")
	require.NoError(t, err)
	out, _, _ = runKarta(t, "check", "--ui", "off", "src")
	assert.Equal(t, "checked 2 files: 1 ok, 1 failed, 0 cached\n", out)
}

func TestCheckCommandRepeatedPath(t *testing.T) {
	dir := sandbox(t)
	bad := writeFile(t, filepath.Join(dir, "bad.karta"), "[1, 2")

	out, _, err := runKarta(t, "check", "--ui", "off", "--no-cache", "--format", "json", bad, bad)
	require.EqualError(t, err, "2 of 2 files failed")
	assert.Contains(t, out, `"count": 1`)
}

func TestCheckSummaryCountsWarnings(t *testing.T) {
	warned := diag.NewBag(0)
	warned.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, "cache write failed"))
	failed := diag.NewBag(0)
	failed.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, "cache write failed"))
	failed.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{}, "expected Comma"))

	res := &driver.CheckResult{Files: []driver.FileResult{
		{Path: "a.karta", Bag: warned},
		{Path: "b.karta", Bag: failed, Failed: true},
		{Path: "c.karta", Bag: diag.NewBag(0), Cached: true},
	}}
	assert.Equal(t, "checked 3 files: 2 ok, 1 failed, 1 cached, 1 with warnings", checkSummary(res))

	res.Files = res.Files[1:]
	assert.Equal(t, "checked 2 files: 1 ok, 1 failed, 1 cached", checkSummary(res))
}

func TestCheckCommandNoFiles(t *testing.T) {
	sandbox(t)
	out, stderr, err := runKarta(t, "check", "--ui", "off")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no .karta files found")
}

func TestInitCommand(t *testing.T) {
	dir := sandbox(t)
	target := filepath.Join(dir, "proj")

	out, _, err := runKarta(t, "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, configFileName)
	assert.FileExists(t, filepath.Join(target, configFileName))
	assert.FileExists(t, filepath.Join(target, "example.karta"))

	_, _, err = runKarta(t, "init", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")

	// the written config loads and the example checks cleanly
	_, err = loadConfig(filepath.Join(target, configFileName))
	require.NoError(t, err)
	t.Chdir(target)
	out, _, err = runKarta(t, "check", "--ui", "off")
	require.NoError(t, err)
	assert.Equal(t, "checked 1 files: 1 ok, 0 failed, 0 cached\n", out)
}

func TestVersionCommand(t *testing.T) {
	sandbox(t)
	out, _, err := runKarta(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "karta "), out)

	out, _, err = runKarta(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "karta"`)
}

func TestProfilingFlags(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "d.karta"), "[1, 2]")
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	_, _, err := runKarta(t, "--cpuprofile", cpu, "--memprofile", mem, "parse", doc)
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestTraceFlagWritesNDJSON(t *testing.T) {
	dir := sandbox(t)
	doc := writeFile(t, filepath.Join(dir, "d.karta"), "{ .a = 1 }")
	out := filepath.Join(dir, "run.ndjson")

	_, _, err := runKarta(t, "--trace", out, "--trace-level", "debug", "query", doc, ".a")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parse"`)
}
