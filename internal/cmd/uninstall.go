package cmd

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
)

func NewUninstall(installer PackageInstaller, opts ...UninstallOption) *Uninstall {
	var cfg UninstallConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Uninstall{
		cfg:       cfg,
		installer: installer,
	}
}

type Uninstall struct {
	cfg       UninstallConfig
	installer PackageInstaller
}

type UninstallConfig struct {
	Log logr.Logger
}

func (c *UninstallConfig) Option(opts ...UninstallOption) {
	for _, opt := range opts {
		opt.ConfigureUninstall(c)
	}
}

func (c *UninstallConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type UninstallOption interface {
	ConfigureUninstall(*UninstallConfig)
}

// Uninstall removes the installed instances of a package from the selected targets.
func (u *Uninstall) Uninstall(
	ctx context.Context, name string, opts ...UninstallPackageOption,
) (packagedeploy.UninstallResult, error) {
	var cfg UninstallPackageConfig

	cfg.Option(opts...)

	res, err := u.installer.Uninstall(ctx, packagedeploy.UninstallRequest{
		Name:    name,
		AppID:   cfg.AppID,
		All:     cfg.All,
		Targets: packagedeploy.TargetSelection{App: cfg.App, CLI: cfg.CLI}.Normalize(),
	})
	if err != nil {
		return res, err
	}

	u.cfg.Log.V(1).Info("uninstalled package", "name", name, "removed", res.Removed)
	return res, nil
}

type UninstallPackageConfig struct {
	AppID string
	All   bool
	App   bool
	CLI   bool
}

func (c *UninstallPackageConfig) Option(opts ...UninstallPackageOption) {
	for _, opt := range opts {
		opt.ConfigureUninstallPackage(c)
	}
}

type UninstallPackageOption interface {
	ConfigureUninstallPackage(*UninstallPackageConfig)
}
