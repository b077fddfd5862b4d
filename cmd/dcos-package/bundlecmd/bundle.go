package bundlecmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dcos/dcos-package/internal/cli"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
)

type BundlerFactory interface {
	Bundler() Bundler
}

type Bundler interface {
	BundlePackage(ctx context.Context, srcDir string, opts ...internalcmd.BundlePackageOption) (string, error)
}

func NewCmd(factory BundlerFactory) *cobra.Command {
	const (
		bundleUse   = "bundle <package-directory>"
		bundleShort = "Bundle a package directory into a zip archive"
		bundleLong  = "Validates a package directory and writes it to a zip archive named " +
			"<name>-<version>-<sha256>.zip. Existing archives are never overwritten."
	)

	cmd := &cobra.Command{
		Use:   bundleUse,
		Short: bundleShort,
		Long:  bundleLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path, err := factory.Bundler().BundlePackage(
			cmd.Context(), args[0],
			internalcmd.WithOutputDirectory(opts.OutputDirectory),
		)
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(
			cli.WithOut{Out: cmd.OutOrStdout()},
			cli.WithErr{Err: cmd.ErrOrStderr()},
		)
		return printer.PrintfErr("Created DCOS Universe package [%s].\n", path)
	}

	return cmd
}

type options struct {
	OutputDirectory string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.OutputDirectory,
		"output-directory",
		o.OutputDirectory,
		"Directory to write the archive to, defaults to the working directory.",
	)
}
