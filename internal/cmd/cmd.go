package cmd

import "errors"

var ErrInvalidArgs = errors.New("arguments invalid")

var (
	ErrNoInstalledPackages = errors.New(
		"There are currently no installed packages. Please use `dcos package install` to install a package.")
	ErrNoPackagesFound = errors.New("No packages found.")
)
