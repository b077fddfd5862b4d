package versioncmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dcos/dcos-package/internal/cli"
	"github.com/dcos/dcos-package/internal/version"
)

func NewCmd() *cobra.Command {
	const (
		versionUse   = "version"
		versionShort = "Output build info of the application"
	)

	cmd := &cobra.Command{
		Use:   versionUse,
		Short: versionShort,
		Args:  cobra.NoArgs,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		info := version.Get()

		lines := [][]string{{"version", info.String()}}
		if opts.Embedded {
			lines = append(lines,
				[]string{"go", info.GoVersion},
				[]string{"path", info.Path},
				[]string{"mod", info.Main.Path, info.Main.Version},
			)
			for _, dep := range info.Deps {
				lines = append(lines, []string{"dep", dep.Path, dep.Version})
			}
			for _, setting := range info.Settings {
				lines = append(lines, []string{"build", setting.Key, setting.Value})
			}
		}

		printer := cli.NewPrinter(cli.WithOut{Out: cmd.OutOrStdout()})
		for _, l := range lines {
			if err := printer.PrintfOut("%s\n", strings.Join(l, " ")); err != nil {
				return err
			}
		}

		return nil
	}

	return cmd
}

type options struct {
	Embedded bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.Embedded,
		"embedded",
		o.Embedded,
		"Output embedded build information as well",
	)
}
