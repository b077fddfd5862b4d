package rootcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/dcos/dcos-package/internal/cli"
	"github.com/dcos/dcos-package/internal/config"
)

const packageInfo = "Install and manage DC/OS packages"

type PackageParams struct {
	dig.In

	SubCommands []*cobra.Command `group:"packageSubCommands"`
}

// NewPackageCmd returns the "package" command grouping all package subcommands.
func NewPackageCmd(params PackageParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: packageInfo,
		Args:  cobra.NoArgs,
	}

	var opts packageOptions

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		printer := cli.NewPrinter(
			cli.WithOut{Out: cmd.OutOrStdout()},
			cli.WithErr{Err: cmd.ErrOrStderr()},
		)

		switch {
		case opts.ConfigSchema:
			schema := map[string]any{}
			if err := json.Unmarshal(config.PackageSchema(), &schema); err != nil {
				return fmt.Errorf("decoding config schema: %w", err)
			}
			return printer.PrintJSON(schema)
		case opts.Info:
			return printer.PrintfOut("%s\n", packageInfo)
		default:
			if err := printer.PrintfErr("%s", cmd.UsageString()); err != nil {
				return err
			}
			return fmt.Errorf("no package subcommand given")
		}
	}

	for _, sub := range params.SubCommands {
		cmd.AddCommand(sub)
	}

	return cmd
}

type packageOptions struct {
	ConfigSchema bool
	Info         bool
}

func (o *packageOptions) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.ConfigSchema,
		"config-schema",
		o.ConfigSchema,
		"Show the configuration schema for the package subcommand.",
	)
	flags.BoolVar(
		&o.Info,
		"info",
		o.Info,
		"Show a short description of this subcommand.",
	)
}
