package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptionsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	for name, tc := range map[string]struct {
		Path     string
		Expected map[string]any
		Error    string
	}{
		"no path": {
			Expected: map[string]any{},
		},
		"json": {
			Path:     write("options.json", `{"helloworld": {"port": 8080}}`),
			Expected: map[string]any{"helloworld": map[string]any{"port": float64(8080)}},
		},
		"yaml": {
			Path:     write("options.yaml", "helloworld:\n  cpus: 0.5\n"),
			Expected: map[string]any{"helloworld": map[string]any{"cpus": 0.5}},
		},
		"empty document": {
			Path:     write("empty.json", ""),
			Expected: map[string]any{},
		},
		"not an object": {
			Path:  write("list.json", `[1, 2]`),
			Error: "Error loading options file",
		},
		"missing": {
			Path:  filepath.Join(dir, "missing.json"),
			Error: "Error opening file",
		},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts, err := ReadOptionsFile(tc.Path)
			if tc.Error != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, opts)
		})
	}
}
