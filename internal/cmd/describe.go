package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagerepository"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// PackageLookup finds packages in the configured sources.
type PackageLookup interface {
	Lookup(ctx context.Context, name string) (*packagerepository.Package, error)
}

func NewDescribe(lookup PackageLookup, opts ...DescribeOption) *Describe {
	var cfg DescribeConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Describe{
		cfg:    cfg,
		lookup: lookup,
	}
}

type Describe struct {
	cfg    DescribeConfig
	lookup PackageLookup
}

type DescribeConfig struct {
	Log logr.Logger
}

func (c *DescribeConfig) Option(opts ...DescribeOption) {
	for _, opt := range opts {
		opt.ConfigureDescribe(c)
	}
}

func (c *DescribeConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type DescribeOption interface {
	ConfigureDescribe(*DescribeConfig)
}

// Describe returns the documents to print for a package, in order.
// Strings are printed verbatim, everything else as JSON.
func (d *Describe) Describe(ctx context.Context, name string, opts ...DescribePackageOption) ([]any, error) {
	var cfg DescribePackageConfig

	cfg.Option(opts...)
	cfg.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pkg, err := d.lookup.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	rev, err := pkg.Revision(ctx, cfg.Version)
	if err != nil {
		return nil, err
	}
	d.cfg.Log.V(1).Info("describing package", "name", name, "version", rev.Version(), "release", rev.Release())

	pj, err := rev.PackageJSON()
	if err != nil {
		return nil, err
	}
	if cfg.Version == nil {
		delete(pj, "version")
		pj["versions"] = pkg.Versions()
	}

	if cfg.PackageVersions {
		return []any{strings.Join(pkg.Versions(), "\n")}, nil
	}
	if !cfg.App && !cfg.CLI && !cfg.Config {
		return []any{map[string]any(pj)}, nil
	}

	userOptions, err := ReadOptionsFile(cfg.OptionsPath)
	if err != nil {
		return nil, err
	}
	options, err := packagerender.Options(rev, userOptions)
	if err != nil {
		return nil, err
	}

	var out []any
	if cfg.CLI {
		if cfg.Render {
			doc, err := packagerender.CommandJSON(rev, options)
			if err != nil {
				return nil, err
			}
			out = append(out, doc)
		} else {
			tmpl, ok := rev.CommandTemplate()
			if !ok {
				return nil, &packagerender.MissingTemplateError{Package: rev.Name(), File: packagetypes.CommandJSONFile}
			}
			out = append(out, packagerender.Raw(tmpl))
		}
	}
	if cfg.App {
		if cfg.Render {
			doc, err := packagerender.MarathonJSON(rev, options)
			if err != nil {
				return nil, err
			}
			out = append(out, doc)
		} else {
			tmpl, ok := rev.MarathonTemplate()
			if !ok {
				return nil, &packagerender.MissingTemplateError{Package: rev.Name(), File: packagetypes.MarathonTemplateFile}
			}
			out = append(out, packagerender.Raw(tmpl))
		}
	}
	if cfg.Config {
		schema, err := rev.ConfigSchema()
		if err != nil {
			return nil, err
		}
		if schema != nil {
			out = append(out, schema)
		}
	}
	return out, nil
}

var ErrPackageVersionsExclusive = errors.New("If --package-versions is provided, no other option can be provided")

type DescribePackageConfig struct {
	Version         *string
	PackageVersions bool
	App             bool
	CLI             bool
	Config          bool
	Render          bool
	OptionsPath     string
}

func (c *DescribePackageConfig) Option(opts ...DescribePackageOption) {
	for _, opt := range opts {
		opt.ConfigureDescribePackage(c)
	}
}

func (c *DescribePackageConfig) Default() {
	// Options are only useful for rendering.
	if c.OptionsPath != "" {
		c.Render = true
	}
}

func (c *DescribePackageConfig) Validate() error {
	if c.PackageVersions && (c.App || c.CLI || c.Config || c.Render || c.Version != nil) {
		return ErrPackageVersionsExclusive
	}
	return nil
}

type DescribePackageOption interface {
	ConfigureDescribePackage(*DescribePackageConfig)
}
