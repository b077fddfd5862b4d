package searchcmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/packages/packagerepository"
)

type searcherMock struct {
	mock.Mock
}

func (m *searcherMock) Searcher() (Searcher, error) { return m, nil }

func (m *searcherMock) Search(ctx context.Context, query string) ([]packagerepository.SearchResult, bool, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]packagerepository.SearchResult)
	return results, args.Bool(1), args.Error(2)
}

var results = []packagerepository.SearchResult{{
	Source: "file:///universe",
	Packages: []packagerepository.IndexEntry{{
		Name:           "cassandra",
		CurrentVersion: "1.0.0",
		Description:    "Apache Cassandra",
		Framework:      true,
		Tags:           []string{"database"},
	}},
}}

func execute(t *testing.T, searcher *searcherMock, args ...string) (string, error) {
	t.Helper()

	cmd := NewCmd(searcher)
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestSearch_Table(t *testing.T) {
	t.Parallel()

	searcher := &searcherMock{}
	searcher.On("Search", mock.Anything, "cass*").Return(results, true, nil)

	out, err := execute(t, searcher, "cass*")
	require.NoError(t, err)
	for _, s := range []string{"FRAMEWORK", "cassandra", "1.0.0", "True", "file:///universe", "Apache Cassandra"} {
		assert.Contains(t, out, s)
	}
}

func TestSearch_JSON(t *testing.T) {
	t.Parallel()

	searcher := &searcherMock{}
	searcher.On("Search", mock.Anything, "").Return(results, true, nil)

	out, err := execute(t, searcher, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"source": "file:///universe",
		"packages": [{
			"name": "cassandra",
			"currentVersion": "1.0.0",
			"description": "Apache Cassandra",
			"framework": true,
			"tags": ["database"]
		}]
	}]`, out)
}

func TestSearch_NotFound(t *testing.T) {
	t.Parallel()

	searcher := &searcherMock{}
	empty := []packagerepository.SearchResult{{Source: "file:///universe", Packages: []packagerepository.IndexEntry{}}}
	searcher.On("Search", mock.Anything, "kafka").Return(empty, false, nil)

	_, err := execute(t, searcher, "kafka")
	require.ErrorIs(t, err, internalcmd.ErrNoPackagesFound)

	out, err := execute(t, searcher, "kafka", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"source": "file:///universe", "packages": []}]`, out)
}

func TestSearch_Error(t *testing.T) {
	t.Parallel()

	searcher := &searcherMock{}
	searcher.On("Search", mock.Anything, "[").Return(nil, false, errors.New("invalid query"))

	_, err := execute(t, searcher, "[")
	require.EqualError(t, err, "invalid query")
}
