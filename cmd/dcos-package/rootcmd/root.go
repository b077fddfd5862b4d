package rootcmd

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/dcos/dcos-package/internal/version"
)

type Params struct {
	dig.In

	Streams     IOStreams
	Args        []string
	Log         *LogOptions
	SubCommands []*cobra.Command `group:"rootSubCommands"`
}

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

func ProvideRootCmd(params Params) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dcos-package",
		Short:         "Install and manage DC/OS packages",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(params.Streams.In)
	cmd.SetOut(params.Streams.Out)
	cmd.SetErr(params.Streams.ErrOut)
	cmd.SetArgs(params.Args)

	params.Log.AddFlags(cmd.PersistentFlags())
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		_, err := params.Log.Level()
		return err
	}

	for _, sub := range params.SubCommands {
		cmd.AddCommand(sub)
	}

	return cmd
}
