package deps

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/dcos/dcos-package/cmd/dcos-package/bundlecmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/describecmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/installcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/listcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/rootcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/searchcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/sourcescmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/uninstallcmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/updatecmd"
	"github.com/dcos/dcos-package/cmd/dcos-package/versioncmd"
)

func ProvideIOStreams() rootcmd.IOStreams {
	return rootcmd.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

func ProvideArgs() []string {
	return os.Args[1:]
}

type RootSubCommandResult struct {
	dig.Out

	SubCommand *cobra.Command `group:"rootSubCommands"`
}

type PackageSubCommandResult struct {
	dig.Out

	SubCommand *cobra.Command `group:"packageSubCommands"`
}

func ProvidePackageCmd(params rootcmd.PackageParams) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: rootcmd.NewPackageCmd(params),
	}
}

func ProvideVersionCmd() RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: versioncmd.NewCmd(),
	}
}

func ProvideSourcesCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: sourcescmd.NewCmd(f),
	}
}

func ProvideUpdateCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: updatecmd.NewCmd(f),
	}
}

func ProvideDescribeCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: describecmd.NewCmd(f),
	}
}

func ProvideInstallCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: installcmd.NewCmd(f),
	}
}

func ProvideListCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: listcmd.NewCmd(f),
	}
}

func ProvideSearchCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: searchcmd.NewCmd(f),
	}
}

func ProvideUninstallCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: uninstallcmd.NewCmd(f),
	}
}

func ProvideBundleCmd(f *DefaultFactory) PackageSubCommandResult {
	return PackageSubCommandResult{
		SubCommand: bundlecmd.NewCmd(f),
	}
}
