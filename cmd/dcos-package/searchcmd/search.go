package searchcmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dcos/dcos-package/internal/cli"
	internalcmd "github.com/dcos/dcos-package/internal/cmd"
	"github.com/dcos/dcos-package/internal/packages/packagerepository"
)

type SearcherFactory interface {
	Searcher() (Searcher, error)
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]packagerepository.SearchResult, bool, error)
}

func NewCmd(factory SearcherFactory) *cobra.Command {
	const (
		searchUse   = "search [<query>]"
		searchShort = "Search the package repository"
		searchLong  = "Matches the query against package names, descriptions and tags of every " +
			"configured source. Queries containing '*' are glob patterns, others match substrings. " +
			"Without a query all packages are listed."
	)

	cmd := &cobra.Command{
		Use:   searchUse,
		Short: searchShort,
		Long:  searchLong,
		Args:  cobra.MaximumNArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		}

		searcher, err := factory.Searcher()
		if err != nil {
			return err
		}

		results, found, err := searcher.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		printer := cli.NewPrinter(cli.WithOut{Out: cmd.OutOrStdout()})
		if opts.JSON {
			if results == nil {
				results = []packagerepository.SearchResult{}
			}
			return printer.PrintJSON(results)
		}
		if !found {
			return internalcmd.ErrNoPackagesFound
		}

		return printer.PrintTable(internalcmd.SearchResultsTable(results))
	}

	return cmd
}

type options struct {
	JSON bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.JSON,
		"json",
		o.JSON,
		"Print the search results as JSON.",
	)
}
