package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

const testConfig = `
[core]
dcos_url = "https://cluster.example.com/"
dcos_acs_token = "secret"
ssl_verify = "false"
timeout = 10

[package]
sources = [
  "https://universe.example.com/repo.zip",
  "file:///opt/local-universe",
]
cache = "/var/cache/dcos"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, testConfig)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, c.Path())
	assert.Equal(t, "secret", c.Core.DcosACSToken)
	assert.Equal(t, 10*time.Second, c.Timeout())
	assert.Equal(t, "/var/cache/dcos", c.CacheDir())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "subcommands"), c.SubcommandsDir())

	sources, err := c.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://universe.example.com/repo.zip", "file:///opt/local-universe"}, sources)

	url, err := c.MarathonURL()
	require.NoError(t, err)
	assert.Equal(t, "https://cluster.example.com/marathon", url)

	tlsCfg, err := c.TLSConfig()
	require.NoError(t, err)
	require.NotNil(t, tlsCfg)
	assert.True(t, tlsCfg.InsecureSkipVerify)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)

	_, err = c.Sources()
	require.ErrorIs(t, err, ErrNoSources)
	assert.Equal(t, filepath.Join(dir, "cache"), c.CacheDir())

	_, err = c.MarathonURL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core.dcos_url")

	_, ok := c.Get("package.sources")
	assert.False(t, ok)
}

func TestParse_InvalidPackageSection(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"sources not a list": "[package]\nsources = \"file:///universe\"\n",
		"unknown key":        "[package]\nsources = []\nmirror = \"x\"\n",
		"empty cache":        "[package]\ncache = \"\"\n",
	} {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("dcos.toml", []byte(content))
			var verr *packagetypes.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Violations)
			assert.Contains(t, err.Error(), "config section [package]")
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	c, err := Parse("dcos.toml", []byte(testConfig))
	require.NoError(t, err)

	for key, expected := range map[string]any{
		"core.dcos_url": "https://cluster.example.com/",
		"core.timeout":  int64(10),
		"package.cache": "/var/cache/dcos",
		"package.sources": []any{
			"https://universe.example.com/repo.zip", "file:///opt/local-universe",
		},
	} {
		v, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, expected, v, key)
	}

	for _, key := range []string{"core.missing", "core.dcos_url.nested", "marathon"} {
		_, ok := c.Get(key)
		assert.False(t, ok, key)
	}
}

func TestMarathonURL_Explicit(t *testing.T) {
	t.Parallel()

	c, err := Parse("dcos.toml", []byte("[marathon]\nurl = \"http://localhost:8080\"\n"))
	require.NoError(t, err)

	url, err := c.MarathonURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", url)
}

func TestTLSConfig(t *testing.T) {
	t.Parallel()

	for _, verify := range []string{"", "true", "True"} {
		c := &Config{Core: Core{SSLVerify: verify}}
		cfg, err := c.TLSConfig()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	}

	c := &Config{Core: Core{SSLVerify: filepath.Join(t.TempDir(), "missing.pem")}}
	_, err := c.TLSConfig()
	require.Error(t, err)
}

func TestPackageSchema(t *testing.T) {
	t.Parallel()

	schema := map[string]any{}
	require.NoError(t, json.Unmarshal(PackageSchema(), &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "sources")
}
