package listcmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dcos/dcos-package/internal/cli"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
)

type ListerFactory interface {
	Lister() (Lister, error)
}

type Lister interface {
	List(ctx context.Context, opts ...internalcmd.ListPackagesOption) ([]packagedeploy.InstalledPackage, error)
}

func NewCmd(factory ListerFactory) *cobra.Command {
	const (
		listUse   = "list [<package-name>]"
		listShort = "Print a list of the installed DC/OS packages"
		listLong  = "Lists installed packages grouped by name and version with their Marathon apps " +
			"and CLI subcommands."
	)

	cmd := &cobra.Command{
		Use:   listUse,
		Short: listShort,
		Long:  listLong,
		Args:  cobra.MaximumNArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		lister, err := factory.Lister()
		if err != nil {
			return err
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		}

		installed, err := lister.List(cmd.Context(),
			internalcmd.WithName(name),
			internalcmd.WithAppID(opts.AppID),
			internalcmd.WithEndpoints(opts.Endpoints),
		)
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(cli.WithOut{Out: cmd.OutOrStdout()})
		if opts.JSON {
			if installed == nil {
				installed = []packagedeploy.InstalledPackage{}
			}
			return printer.PrintJSON(installed)
		}
		if len(installed) == 0 {
			return internalcmd.ErrNoInstalledPackages
		}

		return printer.PrintTable(internalcmd.InstalledPackagesTable(installed))
	}

	return cmd
}

type options struct {
	JSON      bool
	Endpoints bool
	AppID     string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.JSON,
		"json",
		o.JSON,
		"Print the installed packages as JSON.",
	)
	flags.BoolVar(
		&o.Endpoints,
		"endpoints",
		o.Endpoints,
		"Show the host and ports of the package apps.",
	)
	flags.StringVar(
		&o.AppID,
		"app-id",
		o.AppID,
		"Only list the package installed under this application ID.",
	)
}
