package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dcos/dcos-package/internal/marathon"
)

var _ marathon.Client = (*MarathonClient)(nil)

// MarathonClient is a mock for the marathon.Client interface.
type MarathonClient struct {
	mock.Mock
}

func (c *MarathonClient) LaunchApp(ctx context.Context, app map[string]any) error {
	return c.Called(ctx, app).Error(0)
}

func (c *MarathonClient) RemoveApp(ctx context.Context, id string, force bool) error {
	return c.Called(ctx, id, force).Error(0)
}

func (c *MarathonClient) ListApps(ctx context.Context, withTasks bool) ([]marathon.App, error) {
	args := c.Called(ctx, withTasks)
	apps, _ := args.Get(0).([]marathon.App)
	return apps, args.Error(1)
}

// Confirmer is a mock for operator confirmations.
type Confirmer struct {
	mock.Mock
}

func (c *Confirmer) Confirm(prompt string) (bool, error) {
	args := c.Called(prompt)
	return args.Bool(0), args.Error(1)
}
