package uninstallcmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
)

type UninstallerFactory interface {
	Uninstaller() (Uninstaller, error)
}

type Uninstaller interface {
	Uninstall(
		ctx context.Context, name string, opts ...internalcmd.UninstallPackageOption,
	) (packagedeploy.UninstallResult, error)
}

func NewCmd(factory UninstallerFactory) *cobra.Command {
	const (
		uninstallUse   = "uninstall <package-name>"
		uninstallShort = "Uninstall a package"
		uninstallLong  = "Removes the Marathon app and the CLI subcommand of a package. " +
			"When several apps run the package, --app-id or --all select which to remove."
	)

	cmd := &cobra.Command{
		Use:   uninstallUse,
		Short: uninstallShort,
		Long:  uninstallLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("all", "app-id")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		uninstaller, err := factory.Uninstaller()
		if err != nil {
			return err
		}

		_, err = uninstaller.Uninstall(cmd.Context(), args[0],
			internalcmd.WithAll(opts.All),
			internalcmd.WithAppID(opts.AppID),
			internalcmd.WithApp(opts.App),
			internalcmd.WithCLI(opts.CLI),
		)
		return err
	}

	return cmd
}

type options struct {
	All   bool
	AppID string
	App   bool
	CLI   bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.All,
		"all",
		o.All,
		"Remove all instances of the package.",
	)
	flags.StringVar(
		&o.AppID,
		"app-id",
		o.AppID,
		"Remove only the application with this ID.",
	)
	flags.BoolVar(
		&o.App,
		"app",
		o.App,
		"Uninstall only the Marathon application.",
	)
	flags.BoolVar(
		&o.CLI,
		"cli",
		o.CLI,
		"Uninstall only the command line interface.",
	)
}
