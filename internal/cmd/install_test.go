package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

type resolverMock struct {
	mock.Mock
}

func (m *resolverMock) Resolve(ctx context.Context, name string, version *string) (*packagetypes.Revision, error) {
	args := m.Called(ctx, name, version)
	rev, _ := args.Get(0).(*packagetypes.Revision)
	return rev, args.Error(1)
}

type installerMock struct {
	mock.Mock
}

func (m *installerMock) Install(ctx context.Context, req packagedeploy.InstallRequest) (packagedeploy.InstallResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(packagedeploy.InstallResult), args.Error(1)
}

func (m *installerMock) Uninstall(
	ctx context.Context, req packagedeploy.UninstallRequest,
) (packagedeploy.UninstallResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(packagedeploy.UninstallResult), args.Error(1)
}

func (m *installerMock) List(ctx context.Context, filter packagedeploy.ListFilter) ([]packagedeploy.InstalledPackage, error) {
	args := m.Called(ctx, filter)
	pkgs, _ := args.Get(0).([]packagedeploy.InstalledPackage)
	return pkgs, args.Error(1)
}

func testRevision() *packagetypes.Revision {
	return packagetypes.NewRevision(packagetypes.RevisionInfo{
		Name: "helloworld", Version: "0.1.0", Release: "0", Source: "file:///universe",
	}, packagetypes.Files{
		packagetypes.PackageJSONFile: []byte(`{"name": "helloworld", "version": "0.1.0"}`),
	})
}

func TestInstall(t *testing.T) {
	t.Parallel()

	optionsPath := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(optionsPath, []byte(`{"port": 8080}`), 0o600))

	rev := testRevision()
	version := ptr.To("0.1.0")

	resolver := &resolverMock{}
	resolver.On("Resolve", mock.Anything, "helloworld", version).Return(rev, nil)

	installer := &installerMock{}
	installer.On("Install", mock.Anything, packagedeploy.InstallRequest{
		Revision:    rev,
		UserOptions: map[string]any{"port": float64(8080)},
		Targets:     packagedeploy.TargetSelection{App: true, CLI: true},
		AppID:       "/hello",
		Yes:         true,
	}).Return(packagedeploy.InstallResult{Decision: packagedeploy.Proceed}, nil)

	res, err := NewInstall(resolver, installer).Install(context.Background(), "helloworld",
		WithVersion{Version: version},
		WithOptionsPath(optionsPath),
		WithAppID("/hello"),
		WithYes(true),
	)
	require.NoError(t, err)
	assert.Equal(t, packagedeploy.Proceed, res.Decision)
	installer.AssertExpectations(t)
}

func TestInstall_NotFound(t *testing.T) {
	t.Parallel()

	resolver := &resolverMock{}
	resolver.On("Resolve", mock.Anything, "kafka", (*string)(nil)).
		Return(nil, &packagetypes.PackageNotFoundError{Name: "kafka"})
	resolver.On("Resolve", mock.Anything, "helloworld", mock.Anything).
		Return(nil, &packagetypes.VersionNotFoundError{Name: "helloworld", Version: "9.9.9"})

	installer := &installerMock{}
	install := NewInstall(resolver, installer)

	_, err := install.Install(context.Background(), "kafka")
	var notFound *packagetypes.PackageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Package [kafka] not found\n"+
		"You may need to run 'dcos package update' to update your repositories", err.Error())

	_, err = install.Install(context.Background(), "helloworld", WithVersion{Version: ptr.To("9.9.9")})
	assert.Equal(t, "Version 9.9.9 of package [helloworld] is not available", err.Error())

	installer.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	installer := &installerMock{}
	installer.On("Uninstall", mock.Anything, packagedeploy.UninstallRequest{
		Name:    "helloworld",
		AppID:   "/hello",
		Targets: packagedeploy.TargetSelection{App: true},
	}).Return(packagedeploy.UninstallResult{Removed: map[packagedeploy.TargetKind]int{packagedeploy.TargetApp: 1}}, nil)

	res, err := NewUninstall(installer).Uninstall(context.Background(), "helloworld", WithAppID("/hello"), WithApp(true))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed[packagedeploy.TargetApp])
}

func TestList(t *testing.T) {
	t.Parallel()

	installed := []packagedeploy.InstalledPackage{{PackageJSON: packagetypes.PackageJSON{"name": "helloworld"}}}

	installer := &installerMock{}
	installer.On("List", mock.Anything, packagedeploy.ListFilter{Name: "helloworld", Endpoints: true}).
		Return(installed, nil)

	pkgs, err := NewList(installer).List(context.Background(), WithName("helloworld"), WithEndpoints(true))
	require.NoError(t, err)
	assert.Equal(t, installed, pkgs)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	s := NewSearch(repo)

	results, found, err := s.Search(context.Background(), "hello*")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, results, 1)
	assert.Equal(t, "helloworld", results[0].Packages[0].Name)

	results, found, err = s.Search(context.Background(), "kafka")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, results, 1)
}
