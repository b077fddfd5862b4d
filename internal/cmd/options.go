package cmd

import (
	"github.com/go-logr/logr"
)

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureRepository(c *RepositoryConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureDescribe(c *DescribeConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureInstall(c *InstallConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureUninstall(c *UninstallConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureBundle(c *BundleConfig) {
	c.Log = w.Log
}

type WithApp bool

func (w WithApp) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.App = bool(w)
}

func (w WithApp) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.App = bool(w)
}

func (w WithApp) ConfigureUninstallPackage(c *UninstallPackageConfig) {
	c.App = bool(w)
}

type WithCLI bool

func (w WithCLI) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.CLI = bool(w)
}

func (w WithCLI) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.CLI = bool(w)
}

func (w WithCLI) ConfigureUninstallPackage(c *UninstallPackageConfig) {
	c.CLI = bool(w)
}

type WithAppID string

func (w WithAppID) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.AppID = string(w)
}

func (w WithAppID) ConfigureUninstallPackage(c *UninstallPackageConfig) {
	c.AppID = string(w)
}

func (w WithAppID) ConfigureListPackages(c *ListPackagesConfig) {
	c.AppID = string(w)
}

type WithAll bool

func (w WithAll) ConfigureUninstallPackage(c *UninstallPackageConfig) {
	c.All = bool(w)
}

type WithConfig bool

func (w WithConfig) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.Config = bool(w)
}

type WithEndpoints bool

func (w WithEndpoints) ConfigureListPackages(c *ListPackagesConfig) {
	c.Endpoints = bool(w)
}

type WithName string

func (w WithName) ConfigureListPackages(c *ListPackagesConfig) {
	c.Name = string(w)
}

type WithOptionsPath string

func (w WithOptionsPath) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.OptionsPath = string(w)
}

func (w WithOptionsPath) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.OptionsPath = string(w)
}

type WithOutputDirectory string

func (w WithOutputDirectory) ConfigureBundlePackage(c *BundlePackageConfig) {
	c.OutputDirectory = string(w)
}

type WithPackageVersions bool

func (w WithPackageVersions) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.PackageVersions = bool(w)
}

type WithRender bool

func (w WithRender) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.Render = bool(w)
}

// WithVersion selects a package version, nil selects the latest one.
type WithVersion struct{ Version *string }

func (w WithVersion) ConfigureDescribePackage(c *DescribePackageConfig) {
	c.Version = w.Version
}

func (w WithVersion) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.Version = w.Version
}

type WithYes bool

func (w WithYes) ConfigureInstallPackage(c *InstallPackageConfig) {
	c.Yes = bool(w)
}

type WithHeaders []string

func (w WithHeaders) ConfigureTable(c *TableConfig) {
	c.Headers = []string(w)
}
