package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// PackageResolver resolves a package revision from the configured sources.
type PackageResolver interface {
	Resolve(ctx context.Context, name string, version *string) (*packagetypes.Revision, error)
}

// PackageInstaller applies package revisions to the install targets.
type PackageInstaller interface {
	Install(ctx context.Context, req packagedeploy.InstallRequest) (packagedeploy.InstallResult, error)
	Uninstall(ctx context.Context, req packagedeploy.UninstallRequest) (packagedeploy.UninstallResult, error)
	List(ctx context.Context, filter packagedeploy.ListFilter) ([]packagedeploy.InstalledPackage, error)
}

func NewInstall(resolver PackageResolver, installer PackageInstaller, opts ...InstallOption) *Install {
	var cfg InstallConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Install{
		cfg:       cfg,
		resolver:  resolver,
		installer: installer,
	}
}

type Install struct {
	cfg       InstallConfig
	resolver  PackageResolver
	installer PackageInstaller
}

type InstallConfig struct {
	Log logr.Logger
}

func (c *InstallConfig) Option(opts ...InstallOption) {
	for _, opt := range opts {
		opt.ConfigureInstall(c)
	}
}

func (c *InstallConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type InstallOption interface {
	ConfigureInstall(*InstallConfig)
}

// Install resolves the package and installs it on the selected targets.
func (i *Install) Install(ctx context.Context, name string, opts ...InstallPackageOption) (packagedeploy.InstallResult, error) {
	var cfg InstallPackageConfig

	cfg.Option(opts...)

	rev, err := i.resolver.Resolve(ctx, name, cfg.Version)
	var notFound *packagetypes.PackageNotFoundError
	if errors.As(err, &notFound) {
		return packagedeploy.InstallResult{}, fmt.Errorf(
			"%w\nYou may need to run 'dcos package update' to update your repositories", err)
	}
	if err != nil {
		return packagedeploy.InstallResult{}, err
	}

	userOptions, err := ReadOptionsFile(cfg.OptionsPath)
	if err != nil {
		return packagedeploy.InstallResult{}, err
	}

	i.cfg.Log.V(1).Info("installing package",
		"name", rev.Name(), "version", rev.Version(), "source", rev.Source())

	return i.installer.Install(ctx, packagedeploy.InstallRequest{
		Revision:    rev,
		UserOptions: userOptions,
		Targets:     packagedeploy.TargetSelection{App: cfg.App, CLI: cfg.CLI}.Normalize(),
		AppID:       cfg.AppID,
		Yes:         cfg.Yes,
	})
}

type InstallPackageConfig struct {
	Version     *string
	OptionsPath string
	AppID       string
	App         bool
	CLI         bool
	Yes         bool
}

func (c *InstallPackageConfig) Option(opts ...InstallPackageOption) {
	for _, opt := range opts {
		opt.ConfigureInstallPackage(c)
	}
}

type InstallPackageOption interface {
	ConfigureInstallPackage(*InstallPackageConfig)
}
