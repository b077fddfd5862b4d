package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
)

// UniverseRevision describes one revision directory of a test registry.
type UniverseRevision struct {
	Name    string
	Release int
	// PackageJSON is written as package.json. Name and version are defaulted.
	PackageJSON map[string]any
	// Files are written next to package.json, e.g. config.json or marathon.json.mustache.
	Files map[string]string
}

// WriteUniverse writes a source directory in universe layout below dir and returns dir.
// meta/index.json is derived from the revisions, the highest release becoming currentVersion.
func WriteUniverse(t *testing.T, dir, registryVersion string, revisions ...UniverseRevision) string {
	t.Helper()

	repo := filepath.Join(dir, "repo")
	writeJSON(t, filepath.Join(repo, "meta", "version.json"), map[string]any{"version": registryVersion})

	type entry struct {
		latest   int
		pj       map[string]any
		versions map[string]string
	}
	entries := map[string]*entry{}

	for _, rev := range revisions {
		pj := map[string]any{
			"name":        rev.Name,
			"version":     "0.1.0",
			"maintainer":  "support@example.com",
			"description": rev.Name + " package",
			"tags":        []any{"test"},
		}
		for k, v := range rev.PackageJSON {
			pj[k] = v
		}

		revDir := filepath.Join(repo, "packages", strings.ToUpper(rev.Name[:1]), rev.Name, strconv.Itoa(rev.Release))
		writeJSON(t, filepath.Join(revDir, "package.json"), pj)
		for name, content := range rev.Files {
			writeFile(t, filepath.Join(revDir, name), content)
		}

		e, ok := entries[rev.Name]
		if !ok {
			e = &entry{latest: -1, versions: map[string]string{}}
			entries[rev.Name] = e
		}
		e.versions[pj["version"].(string)] = strconv.Itoa(rev.Release)
		if rev.Release > e.latest {
			e.latest = rev.Release
			e.pj = pj
		}
	}

	names := maps.Keys(entries)
	sort.Strings(names)

	packages := make([]any, 0, len(names))
	for _, name := range names {
		e := entries[name]
		framework, _ := e.pj["framework"].(bool)
		packages = append(packages, map[string]any{
			"name":           name,
			"currentVersion": e.pj["version"],
			"versions":       e.versions,
			"description":    e.pj["description"],
			"framework":      framework,
			"tags":           e.pj["tags"],
		})
	}
	writeJSON(t, filepath.Join(repo, "meta", "index.json"), map[string]any{
		"version":  registryVersion,
		"packages": packages,
	})
	return dir
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	writeFile(t, path, string(data))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
