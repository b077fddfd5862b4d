package packagesource

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Source is a package source identified by its URL.
// Sources are kept in configured priority order, the first one wins on name collisions.
type Source struct {
	URL string
}

// NewSources converts configured URLs into sources, keeping their order.
func NewSources(urls []string) []Source {
	sources := make([]Source, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, Source{URL: u})
	}
	return sources
}

// Hash is the hex encoded sha256 of the source URL.
// It names the cache directory of the source.
func (s Source) Hash() string {
	return digest.FromString(s.URL).Encoded()
}

func (s Source) String() string {
	return s.URL
}

type sourceKind string

const (
	sourceKindFile sourceKind = "file"
	sourceKindHTTP sourceKind = "http"
	sourceKindGit  sourceKind = "git"
)

func (s Source) kind() (sourceKind, *url.URL, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", nil, fmt.Errorf("parse source url %q: %w", s.URL, err)
	}

	switch {
	case u.Scheme == "git" || u.Scheme == "ssh" || strings.HasPrefix(u.Scheme, "git+"):
		return sourceKindGit, u, nil
	case strings.HasSuffix(u.Path, ".git"):
		return sourceKindGit, u, nil
	case u.Scheme == "file":
		return sourceKindFile, u, nil
	case u.Scheme == "http" || u.Scheme == "https":
		return sourceKindHTTP, u, nil
	}
	return "", nil, &UnsupportedSourceError{URL: s.URL}
}

// UnsupportedSourceError is returned for source URLs no fetcher can handle.
type UnsupportedSourceError struct {
	URL string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("Source URL uses unsupported protocol [%s]", e.URL)
}
