package cmd

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagerepository"
	"github.com/dcos/dcos-package/internal/packages/packagesource"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// SourceConfig provides the configured package source URLs in priority order.
type SourceConfig interface {
	Sources() ([]string, error)
}

// NewRepository returns a Repository reading the sources of conf
// from the local copies kept in store.
func NewRepository(conf SourceConfig, store *packagesource.Store, opts ...RepositoryOption) *Repository {
	var cfg RepositoryConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Repository{
		cfg:   cfg,
		conf:  conf,
		store: store,
	}
}

// Repository gives commands access to the configured package sources.
// Sources are looked up on every call so configuration errors only
// surface for commands that actually need sources.
type Repository struct {
	cfg   RepositoryConfig
	conf  SourceConfig
	store *packagesource.Store
}

type RepositoryConfig struct {
	Log logr.Logger
}

func (c *RepositoryConfig) Option(opts ...RepositoryOption) {
	for _, opt := range opts {
		opt.ConfigureRepository(c)
	}
}

func (c *RepositoryConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type RepositoryOption interface {
	ConfigureRepository(*RepositoryConfig)
}

// Sources returns the configured sources in priority order.
func (r *Repository) Sources() ([]packagesource.Source, error) {
	urls, err := r.conf.Sources()
	if err != nil {
		return nil, err
	}
	return packagesource.NewSources(urls), nil
}

// Update refreshes the local copies of all sources.
func (r *Repository) Update(ctx context.Context, validate bool) error {
	sources, err := r.Sources()
	if err != nil {
		return err
	}

	r.cfg.Log.V(1).Info("updating package sources", "count", len(sources), "validate", validate)
	return r.store.Update(logr.NewContext(ctx, r.cfg.Log), sources, validate)
}

func (r *Repository) Lookup(ctx context.Context, name string) (*packagerepository.Package, error) {
	res, err := r.resolver()
	if err != nil {
		return nil, err
	}
	return res.Lookup(ctx, name)
}

func (r *Repository) Resolve(ctx context.Context, name string, version *string) (*packagetypes.Revision, error) {
	res, err := r.resolver()
	if err != nil {
		return nil, err
	}
	return res.Resolve(ctx, name, version)
}

func (r *Repository) Search(ctx context.Context, query string) ([]packagerepository.SearchResult, error) {
	res, err := r.resolver()
	if err != nil {
		return nil, err
	}
	return res.Search(ctx, query)
}

func (r *Repository) resolver() (*packagerepository.Resolver, error) {
	sources, err := r.Sources()
	if err != nil {
		return nil, err
	}
	return packagerepository.NewResolver(
		packagerepository.RegistriesFromStore(r.store, sources),
		packagerepository.WithLog{Log: r.cfg.Log},
	), nil
}
