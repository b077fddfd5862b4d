package packagetypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_DeepCopy(t *testing.T) {
	t.Parallel()

	f := Files{"test": []byte("xxx")}
	newF := f.DeepCopy()
	assert.NotSame(t, &f, &newF)
	assert.NotSame(t, &f["test"][0], &newF["test"][0])
	assert.Equal(t, f, newF)
}

func TestNewRevision_Immutable(t *testing.T) {
	t.Parallel()

	files := Files{PackageJSONFile: []byte(`{"name":"foo","version":"1.0"}`)}
	rev := NewRevision(RevisionInfo{Name: "foo", Version: "1.0", Release: "3"}, files)

	files[PackageJSONFile][0] = 'X'
	data, ok := rev.File(PackageJSONFile)
	require.True(t, ok)
	assert.Equal(t, byte('{'), data[0])

	data[0] = 'Y'
	again, _ := rev.File(PackageJSONFile)
	assert.Equal(t, byte('{'), again[0])

	assert.Equal(t, "foo", rev.Name())
	assert.Equal(t, "3", rev.Release())
}

func TestRevision_Definitions(t *testing.T) {
	t.Parallel()

	rev := NewRevision(RevisionInfo{Name: "foo"}, Files{
		PackageJSONFile: []byte(`{"name":"foo","version":"1.0","framework":true,"tags":["a","b"]}`),
		CommandJSONFile: []byte(`{"pip":["foo"]}`),
	})

	assert.True(t, rev.HasCommandDefinition())
	assert.False(t, rev.HasMarathonDefinition())

	pj, err := rev.PackageJSON()
	require.NoError(t, err)
	assert.Equal(t, "foo", pj.Name())
	assert.True(t, pj.Framework())
	assert.Equal(t, []string{"a", "b"}, pj.Tags())

	schema, err := rev.ConfigSchema()
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestPackageJSON_DeepCopy(t *testing.T) {
	t.Parallel()

	pj := PackageJSON{"name": "foo", "nested": map[string]any{"a": []any{1.0}}}
	cp := pj.DeepCopy()
	cp["nested"].(map[string]any)["a"].([]any)[0] = 2.0

	assert.Equal(t, 1.0, pj["nested"].(map[string]any)["a"].([]any)[0])
}

func TestErrors(t *testing.T) {
	t.Parallel()

	assert.EqualError(t, &PackageNotFoundError{Name: "foo"}, "Package [foo] not found")
	assert.EqualError(t, &VersionNotFoundError{Name: "foo", Version: "9.9"},
		"Version 9.9 of package [foo] is not available")
	assert.EqualError(t, &ConflictError{Path: "/tmp/x.zip"}, "Output file [/tmp/x.zip] already exists")
	assert.EqualError(t, &ValidationError{Path: "config.json", Violations: []string{"a", "b"}},
		"Error validating JSON file [config.json]\na\nb")
	assert.EqualError(t, ViolationError{}, string(ViolationReasonUnknown))
	assert.EqualError(t, ViolationError{Reason: ViolationReasonExtraFile, Path: "pkg/foo.txt"},
		"Error bundling package. Extra file in package directory [pkg/foo.txt]")
}
