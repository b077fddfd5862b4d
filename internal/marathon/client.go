// Package marathon talks to the application launch API of the cluster scheduler.
package marathon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
)

// Task is a running instance of an app.
type Task struct {
	Host  string `json:"host"`
	Ports []int  `json:"ports"`
}

// App is the part of a Marathon app definition this client reads.
type App struct {
	ID     string            `json:"id"`
	Labels map[string]string `json:"labels"`
	Tasks  []Task            `json:"tasks,omitempty"`
}

// Client is the contract of the scheduler used by package installation.
type Client interface {
	// LaunchApp submits a rendered app definition.
	LaunchApp(ctx context.Context, app map[string]any) error
	// RemoveApp destroys the app with the given id.
	RemoveApp(ctx context.Context, id string, force bool) error
	// ListApps returns all apps, including their tasks when withTasks is set.
	ListApps(ctx context.Context, withTasks bool) ([]App, error)
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client on top of the Marathon REST API.
type HTTPClient struct {
	baseURL *url.URL
	cfg     ClientConfig
}

func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse marathon url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("marathon url %q must be absolute", baseURL)
	}

	var cfg ClientConfig

	cfg.Option(opts...)
	cfg.Default()

	return &HTTPClient{baseURL: u, cfg: cfg}, nil
}

type ClientConfig struct {
	Log        logr.Logger
	HTTPClient *http.Client
	// Token is sent as "Authorization: token=<Token>" when set.
	Token string
}

func (c *ClientConfig) Option(opts ...ClientOption) {
	for _, opt := range opts {
		opt.ConfigureClient(c)
	}
}

func (c *ClientConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

type ClientOption interface {
	ConfigureClient(*ClientConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureClient(c *ClientConfig) { c.Log = w.Log }

type WithHTTPClient struct{ Client *http.Client }

func (w WithHTTPClient) ConfigureClient(c *ClientConfig) { c.HTTPClient = w.Client }

type WithToken string

func (w WithToken) ConfigureClient(c *ClientConfig) { c.Token = string(w) }

// APIError is returned for non 2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Error from Marathon (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("Error from Marathon (status %d): %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) LaunchApp(ctx context.Context, app map[string]any) error {
	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode app definition: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/v2/apps", nil, body, nil)
}

func (c *HTTPClient) RemoveApp(ctx context.Context, id string, force bool) error {
	query := url.Values{}
	if force {
		query.Set("force", "true")
	}
	return c.do(ctx, http.MethodDelete, "/v2/apps/"+strings.TrimPrefix(id, "/"), query, nil, nil)
}

func (c *HTTPClient) ListApps(ctx context.Context, withTasks bool) ([]App, error) {
	query := url.Values{}
	if withTasks {
		query.Set("embed", "apps.tasks")
	}

	resp := struct {
		Apps []App `json:"apps"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/v2/apps", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Apps, nil
}

func (c *HTTPClient) do(
	ctx context.Context, method, path string, query url.Values, body []byte, out any,
) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "token="+c.cfg.Token)
	}

	c.cfg.Log.V(1).Info("sending request", "method", method, "url", u.String())
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.String(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response of %s %s: %w", method, u.String(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		msg := struct {
			Message string `json:"message"`
		}{}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, u.String(), err)
	}
	return nil
}
