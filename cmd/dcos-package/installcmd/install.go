package installcmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/dcos/dcos-package/internal/cli"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
)

type InstallerFactory interface {
	Installer(printer packagedeploy.Printer, confirmer packagedeploy.Confirmer) (Installer, error)
}

type Installer interface {
	Install(ctx context.Context, name string, opts ...internalcmd.InstallPackageOption) (packagedeploy.InstallResult, error)
}

func NewCmd(factory InstallerFactory) *cobra.Command {
	const (
		installUse   = "install <package-name>"
		installShort = "Install a package"
		installLong  = "Installs the Marathon app and the CLI subcommand of a package. " +
			"Without --app or --cli both are installed where the package defines them."
	)

	cmd := &cobra.Command{
		Use:   installUse,
		Short: installShort,
		Long:  installLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		printer := cli.NewPrinter(
			cli.WithOut{Out: cmd.OutOrStdout()},
			cli.WithErr{Err: cmd.ErrOrStderr()},
		)
		confirmer := cli.NewConfirmer(
			cli.WithIn{In: cmd.InOrStdin()},
			cli.WithOut{Out: cmd.OutOrStdout()},
		)

		installer, err := factory.Installer(printer, confirmer)
		if err != nil {
			return err
		}

		installOpts := []internalcmd.InstallPackageOption{
			internalcmd.WithOptionsPath(opts.OptionsPath),
			internalcmd.WithAppID(opts.AppID),
			internalcmd.WithApp(opts.App),
			internalcmd.WithCLI(opts.CLI),
			internalcmd.WithYes(opts.Yes),
		}
		if cmd.Flags().Changed("package-version") {
			installOpts = append(installOpts, internalcmd.WithVersion{Version: ptr.To(opts.PackageVersion)})
		}

		_, err = installer.Install(cmd.Context(), args[0], installOpts...)
		return err
	}

	return cmd
}

type options struct {
	PackageVersion string
	OptionsPath    string
	AppID          string
	App            bool
	CLI            bool
	Yes            bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.PackageVersion,
		"package-version",
		o.PackageVersion,
		"The package version to install.",
	)
	flags.StringVar(
		&o.OptionsPath,
		"options",
		o.OptionsPath,
		"Path to a JSON file with the installation options.",
	)
	flags.StringVar(
		&o.AppID,
		"app-id",
		o.AppID,
		"The application ID, defaults to the package name.",
	)
	flags.BoolVar(
		&o.App,
		"app",
		o.App,
		"Install only the Marathon application.",
	)
	flags.BoolVar(
		&o.CLI,
		"cli",
		o.CLI,
		"Install only the command line interface.",
	)
	flags.BoolVar(
		&o.Yes,
		"yes",
		o.Yes,
		"Answer every confirmation with yes.",
	)
}
