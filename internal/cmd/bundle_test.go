package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBundle_EmptySource(t *testing.T) {
	t.Parallel()

	_, err := NewBundle().BundlePackage(context.Background(), "", WithOutputDirectory(t.TempDir()))
	require.ErrorIs(t, err, ErrInvalidArgs)
}
