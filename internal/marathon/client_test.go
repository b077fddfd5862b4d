package marathon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{WithLog{Log: testr.New(t)}, WithHTTPClient{Client: srv.Client()}}, opts...)
	c, err := NewHTTPClient(srv.URL+"/marathon/", opts...)
	require.NoError(t, err)
	return c
}

func TestHTTPClient_LaunchApp(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/marathon/v2/apps", r.URL.Path)
		assert.Equal(t, "token=secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "/helloworld"}`))
	}, WithToken("secret"))

	require.NoError(t, c.LaunchApp(context.Background(), map[string]any{"id": "/helloworld", "cpus": 0.1}))
	assert.Equal(t, map[string]any{"id": "/helloworld", "cpus": 0.1}, got)
}

func TestHTTPClient_LaunchApp_Conflict(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "An app with id [/helloworld] already exists."}`))
	})

	err := c.LaunchApp(context.Background(), map[string]any{"id": "/helloworld"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Error from Marathon (status 409): An app with id [/helloworld] already exists.", err.Error())
}

func TestHTTPClient_RemoveApp(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/marathon/v2/apps/group/helloworld", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"deploymentId": "x"}`))
	})

	require.NoError(t, c.RemoveApp(context.Background(), "/group/helloworld", true))
}

func TestHTTPClient_ListApps(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		WithTasks     bool
		ExpectedEmbed string
	}{
		"plain":      {},
		"with tasks": {WithTasks: true, ExpectedEmbed: "apps.tasks"},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tc.ExpectedEmbed, r.URL.Query().Get("embed"))
				_, _ = w.Write([]byte(`{"apps": [{
					"id": "/helloworld",
					"labels": {"DCOS_PACKAGE_NAME": "helloworld"},
					"tasks": [{"host": "10.0.0.1", "ports": [31000, 31001]}]
				}]}`))
			})

			apps, err := c.ListApps(context.Background(), tc.WithTasks)
			require.NoError(t, err)
			assert.Equal(t, []App{{
				ID:     "/helloworld",
				Labels: map[string]string{"DCOS_PACKAGE_NAME": "helloworld"},
				Tasks:  []Task{{Host: "10.0.0.1", Ports: []int{31000, 31001}}},
			}}, apps)
		})
	}
}

func TestNewHTTPClient_RelativeURL(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPClient("marathon")
	require.Error(t, err)
}
