package cmd

import (
	"context"

	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
)

func NewList(installer PackageInstaller) *List {
	return &List{installer: installer}
}

type List struct {
	installer PackageInstaller
}

// List returns the installed packages matching the given options.
func (l *List) List(ctx context.Context, opts ...ListPackagesOption) ([]packagedeploy.InstalledPackage, error) {
	var cfg ListPackagesConfig

	cfg.Option(opts...)

	return l.installer.List(ctx, packagedeploy.ListFilter{
		Name:      cfg.Name,
		AppID:     cfg.AppID,
		Endpoints: cfg.Endpoints,
	})
}

type ListPackagesConfig struct {
	Name      string
	AppID     string
	Endpoints bool
}

func (c *ListPackagesConfig) Option(opts ...ListPackagesOption) {
	for _, opt := range opts {
		opt.ConfigureListPackages(c)
	}
}

type ListPackagesOption interface {
	ConfigureListPackages(*ListPackagesConfig)
}
