package updatecmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type UpdaterFactory interface {
	Updater() (Updater, error)
}

type Updater interface {
	Update(ctx context.Context, validate bool) error
}

func NewCmd(factory UpdaterFactory) *cobra.Command {
	const (
		updateUse   = "update [--validate]"
		updateShort = "Update the local package cache"
		updateLong  = "Fetches every configured package source and replaces its local copy. " +
			"Errors of single sources are reported together after all sources were processed."
	)

	cmd := &cobra.Command{
		Use:   updateUse,
		Short: updateShort,
		Long:  updateLong,
		Args:  cobra.NoArgs,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		updater, err := factory.Updater()
		if err != nil {
			return err
		}

		return updater.Update(cmd.Context(), opts.Validate)
	}

	return cmd
}

type options struct {
	Validate bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.Validate,
		"validate",
		o.Validate,
		"Validate package content when updating sources.",
	)
}
