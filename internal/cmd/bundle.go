package cmd

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagebundle"
)

func NewBundle(opts ...BundleOption) *Bundle {
	var cfg BundleConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Bundle{
		cfg:     cfg,
		bundler: packagebundle.NewBundler(packagebundle.WithLog{Log: cfg.Log}),
	}
}

type Bundle struct {
	cfg     BundleConfig
	bundler *packagebundle.Bundler
}

type BundleConfig struct {
	Log logr.Logger
}

func (c *BundleConfig) Option(opts ...BundleOption) {
	for _, opt := range opts {
		opt.ConfigureBundle(c)
	}
}

func (c *BundleConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type BundleOption interface {
	ConfigureBundle(*BundleConfig)
}

// BundlePackage archives the package directory srcDir and returns the archive path.
func (b *Bundle) BundlePackage(ctx context.Context, srcDir string, opts ...BundlePackageOption) (string, error) {
	var cfg BundlePackageConfig

	cfg.Option(opts...)
	if srcDir == "" {
		return "", fmt.Errorf("%w: package directory empty", ErrInvalidArgs)
	}

	return b.bundler.Bundle(ctx, srcDir, cfg.OutputDirectory)
}

type BundlePackageConfig struct {
	OutputDirectory string
}

func (c *BundlePackageConfig) Option(opts ...BundlePackageOption) {
	for _, opt := range opts {
		opt.ConfigureBundlePackage(c)
	}
}

type BundlePackageOption interface {
	ConfigureBundlePackage(*BundlePackageConfig)
}
