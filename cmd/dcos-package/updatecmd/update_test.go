package updatecmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type updaterMock struct {
	mock.Mock
}

func (m *updaterMock) Updater() (Updater, error) { return m, nil }

func (m *updaterMock) Update(ctx context.Context, validate bool) error {
	return m.Called(ctx, validate).Error(0)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		Args     []string
		Validate bool
		Err      error
	}{
		"plain":    {Args: []string{}},
		"validate": {Args: []string{"--validate"}, Validate: true},
		"failure":  {Args: []string{}, Err: errors.New("Error fetching source")},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			updater := &updaterMock{}
			updater.On("Update", mock.Anything, tc.Validate).Return(tc.Err)

			cmd := NewCmd(updater)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.Args)

			err := cmd.ExecuteContext(context.Background())
			if tc.Err != nil {
				require.ErrorIs(t, err, tc.Err)
			} else {
				require.NoError(t, err)
			}
			updater.AssertExpectations(t)
		})
	}
}
