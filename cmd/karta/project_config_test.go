package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigWalksUp(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, filepath.Join(dir, configFileName), "")
	deep := filepath.Join(dir, "a", "b")
	writeFile(t, filepath.Join(deep, "x.karta"), "1")

	got, ok, err := findConfig(deep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, configFileName), `
[parse]
strict_fields = true
max_depth = 16

[check]
extension = ".kt"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Parse.StrictFields)
	assert.Equal(t, uint(16), cfg.Parse.MaxDepth)
	assert.Equal(t, ".kt", cfg.Check.Extension)
	// значения по умолчанию сохраняются
	assert.True(t, cfg.Check.Cache)
	assert.Equal(t, "pretty", cfg.Output.Format)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"unknown key", "[parse]\nstrict = true\n", "unknown keys: parse.strict"},
		{"bad toml", "[parse\n", "failed to parse TOML"},
		{"bad color", "[output]\ncolor = \"always\"\n", `invalid [output].color value "always"`},
		{"bad format", "[output]\nformat = \"xml\"\n", "[output].format must be pretty or json"},
		{"bad extension", "[check]\nextension = \"karta\"\n", "[check].extension"},
		{"negative jobs", "[check]\njobs = -1\n", "[check].jobs must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), configFileName), tc.body)
			_, err := loadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, filepath.Join(dir, configFileName), "[parse]\nstrict_fields = true\n")
	doc := writeFile(t, filepath.Join(dir, "d.karta"), "{ .a = 1 }")

	// strict: a name that occurs nowhere resolves to .nil
	out, _, err := runKarta(t, "query", doc, ".nowhere")
	require.NoError(t, err)
	assert.Equal(t, ".nil\n", out)

	// non-strict: the lookup is ignored and the cursor stays on the map
	out, _, err = runKarta(t, "query", "--strict=false", doc, ".nowhere.a")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := sandbox(t)
	cfg := writeFile(t, filepath.Join(dir, "conf", "other.toml"), "[output]\nformat = \"json\"\n")
	doc := writeFile(t, filepath.Join(dir, "d.karta"), "1")

	out, _, err := runKarta(t, "--config", cfg, "tokenize", doc)
	require.NoError(t, err)
	assert.Contains(t, out, `"Integer"`)
}
