package cmd

import (
	"context"

	"github.com/dcos/dcos-package/internal/packages/packagerepository"
)

// PackageSearcher searches the indexes of the configured sources.
type PackageSearcher interface {
	Search(ctx context.Context, query string) ([]packagerepository.SearchResult, error)
}

func NewSearch(searcher PackageSearcher) *Search {
	return &Search{searcher: searcher}
}

type Search struct {
	searcher PackageSearcher
}

// Search returns the matches per source. found reports whether any source matched.
func (s *Search) Search(ctx context.Context, query string) (results []packagerepository.SearchResult, found bool, err error) {
	results, err = s.searcher.Search(ctx, query)
	if err != nil {
		return nil, false, err
	}

	for _, r := range results {
		if len(r.Packages) > 0 {
			return results, true, nil
		}
	}
	return results, false, nil
}
