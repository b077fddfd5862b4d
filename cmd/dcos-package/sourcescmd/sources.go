package sourcescmd

import (
	"github.com/spf13/cobra"

	"github.com/dcos/dcos-package/internal/cli"
	"github.com/dcos/dcos-package/internal/packages/packagesource"
)

type SourceListerFactory interface {
	SourceLister() (SourceLister, error)
}

type SourceLister interface {
	Sources() ([]packagesource.Source, error)
}

func NewCmd(factory SourceListerFactory) *cobra.Command {
	const (
		sourcesUse   = "sources"
		sourcesShort = "List the configured package sources"
		sourcesLong  = "Prints the hash and URL of every configured package source in search order."
	)

	cmd := &cobra.Command{
		Use:   sourcesUse,
		Short: sourcesShort,
		Long:  sourcesLong,
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		lister, err := factory.SourceLister()
		if err != nil {
			return err
		}

		sources, err := lister.Sources()
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(cli.WithOut{Out: cmd.OutOrStdout()})
		for _, src := range sources {
			if err := printer.PrintfOut("%s %s\n", src.Hash(), src.URL); err != nil {
				return err
			}
		}

		return nil
	}

	return cmd
}
