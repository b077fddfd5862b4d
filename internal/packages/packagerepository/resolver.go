package packagerepository

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"
	"github.com/gobwas/glob"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// Resolver finds packages in registries ordered by priority.
// The first registry containing a name decides its versions,
// revisions are never merged across registries.
type Resolver struct {
	registries []*Registry
	cfg        ResolverConfig
}

func NewResolver(registries []*Registry, opts ...ResolverOption) *Resolver {
	var cfg ResolverConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Resolver{
		registries: registries,
		cfg:        cfg,
	}
}

type ResolverConfig struct {
	Log logr.Logger
}

func (c *ResolverConfig) Option(opts ...ResolverOption) {
	for _, opt := range opts {
		opt.ConfigureResolver(c)
	}
}

func (c *ResolverConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type ResolverOption interface {
	ConfigureResolver(*ResolverConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureResolver(c *ResolverConfig) {
	c.Log = w.Log
}

// Registries returns the usable registries in priority order.
// Sources that were never fetched are skipped.
func (r *Resolver) Registries() ([]*Registry, error) {
	var usable []*Registry
	for _, reg := range r.registries {
		if !reg.Exists() {
			r.cfg.Log.V(1).Info("package source not fetched yet, skipping", "url", reg.Source().URL)
			continue
		}
		if err := reg.CheckVersion(); err != nil {
			return nil, err
		}
		usable = append(usable, reg)
	}
	return usable, nil
}

// Lookup returns the package from the highest priority registry containing it.
func (r *Resolver) Lookup(ctx context.Context, name string) (*Package, error) {
	registries, err := r.Registries()
	if err != nil {
		return nil, err
	}

	ctx = logr.NewContext(ctx, r.cfg.Log)
	for _, reg := range registries {
		pkg, err := reg.Package(ctx, name)
		var notFound *packagetypes.PackageNotFoundError
		if errors.As(err, &notFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		r.cfg.Log.V(1).Info("resolved package", "name", name, "source", reg.Source().URL)
		return pkg, nil
	}
	return nil, &packagetypes.PackageNotFoundError{Name: name}
}

// Resolve returns the revision of a package, the latest one when version is nil.
// A known package without the requested version yields *packagetypes.VersionNotFoundError.
func (r *Resolver) Resolve(ctx context.Context, name string, version *string) (*packagetypes.Revision, error) {
	pkg, err := r.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return pkg.Revision(logr.NewContext(ctx, r.cfg.Log), version)
}

// SearchResult lists the index entries of one source matching a query.
type SearchResult struct {
	Source   string       `json:"source"`
	Packages []IndexEntry `json:"packages"`
}

// Search matches query against names, descriptions and tags of all index entries.
// Queries containing '*' are globs, all others substrings. Matching ignores case.
func (r *Resolver) Search(_ context.Context, query string) ([]SearchResult, error) {
	match, err := newMatcher(query)
	if err != nil {
		return nil, err
	}

	registries, err := r.Registries()
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(registries))
	for _, reg := range registries {
		idx, err := reg.Index()
		if err != nil {
			return nil, err
		}

		result := SearchResult{Source: reg.Source().URL, Packages: []IndexEntry{}}
		for _, entry := range idx.Packages {
			if entryMatches(match, entry) {
				result.Packages = append(result.Packages, entry)
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func newMatcher(query string) (func(string) bool, error) {
	query = strings.ToLower(query)
	if !strings.Contains(query, "*") {
		return func(s string) bool { return strings.Contains(s, query) }, nil
	}

	g, err := glob.Compile(query)
	if err != nil {
		return nil, err
	}
	return g.Match, nil
}

func entryMatches(match func(string) bool, entry IndexEntry) bool {
	if match(strings.ToLower(entry.Name)) || match(strings.ToLower(entry.Description)) {
		return true
	}
	for _, tag := range entry.Tags {
		if match(strings.ToLower(tag)) {
			return true
		}
	}
	return false
}
