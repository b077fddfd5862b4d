package describecmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/dcos/dcos-package/internal/cli"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
)

type DescriberFactory interface {
	Describer() (Describer, error)
}

type Describer interface {
	Describe(ctx context.Context, name string, opts ...internalcmd.DescribePackageOption) ([]any, error)
}

func NewCmd(factory DescriberFactory) *cobra.Command {
	const (
		describeUse   = "describe <package-name>"
		describeShort = "Get specific details for packages"
		describeLong  = "Prints the package.json of the newest version of a package. " +
			"With --app, --cli or --config the Marathon template, the command definition " +
			"or the configuration schema are printed instead, rendered with the package " +
			"defaults and --options when --render is given."
	)

	cmd := &cobra.Command{
		Use:   describeUse,
		Short: describeShort,
		Long:  describeLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		describer, err := factory.Describer()
		if err != nil {
			return err
		}

		describeOpts := []internalcmd.DescribePackageOption{
			internalcmd.WithApp(opts.App),
			internalcmd.WithCLI(opts.CLI),
			internalcmd.WithConfig(opts.Config),
			internalcmd.WithRender(opts.Render),
			internalcmd.WithPackageVersions(opts.PackageVersions),
			internalcmd.WithOptionsPath(opts.OptionsPath),
		}
		if cmd.Flags().Changed("package-version") {
			describeOpts = append(describeOpts, internalcmd.WithVersion{Version: ptr.To(opts.PackageVersion)})
		}

		docs, err := describer.Describe(cmd.Context(), args[0], describeOpts...)
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(cli.WithOut{Out: cmd.OutOrStdout()})
		for _, doc := range docs {
			if s, ok := doc.(string); ok {
				err = printer.PrintfOut("%s\n", s)
			} else {
				err = printer.PrintJSON(doc)
			}
			if err != nil {
				return err
			}
		}

		return nil
	}

	return cmd
}

type options struct {
	App             bool
	CLI             bool
	Config          bool
	Render          bool
	PackageVersions bool
	PackageVersion  string
	OptionsPath     string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.App,
		"app",
		o.App,
		"Display the Marathon application template.",
	)
	flags.BoolVar(
		&o.CLI,
		"cli",
		o.CLI,
		"Display the command line interface definition.",
	)
	flags.BoolVar(
		&o.Config,
		"config",
		o.Config,
		"Display the package configuration schema.",
	)
	flags.BoolVar(
		&o.Render,
		"render",
		o.Render,
		"Render templates with the package defaults and the --options file.",
	)
	flags.BoolVar(
		&o.PackageVersions,
		"package-versions",
		o.PackageVersions,
		"Display all available versions of the package.",
	)
	flags.StringVar(
		&o.PackageVersion,
		"package-version",
		o.PackageVersion,
		"Describe this version of the package instead of the newest one.",
	)
	flags.StringVar(
		&o.OptionsPath,
		"options",
		o.OptionsPath,
		"Path to a JSON file with the options used for rendering.",
	)
}
