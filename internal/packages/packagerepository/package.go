package packagerepository

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// RevisionRef points at one revision directory of a package.
type RevisionRef struct {
	// Release is the revision index, the name of the revision directory.
	Release int
	// Version is the package.json version of the revision.
	Version string
}

// Package is one package of a registry with its revisions ordered by release.
type Package struct {
	name      string
	registry  *Registry
	dir       string
	revisions []RevisionRef
}

func (p *Package) Name() string { return p.name }

// Source is the URL of the package source the package was found in.
func (p *Package) Source() string { return p.registry.source.URL }

// Revisions returns all revisions, oldest first.
func (p *Package) Revisions() []RevisionRef {
	out := make([]RevisionRef, len(p.revisions))
	copy(out, p.revisions)
	return out
}

// RevisionMap maps each release to its version.
func (p *Package) RevisionMap() map[string]string {
	m := make(map[string]string, len(p.revisions))
	for _, ref := range p.revisions {
		m[strconv.Itoa(ref.Release)] = ref.Version
	}
	return m
}

// Versions lists the versions of all revisions in release order.
func (p *Package) Versions() []string {
	versions := make([]string, 0, len(p.revisions))
	for _, ref := range p.revisions {
		versions = append(versions, ref.Version)
	}
	return versions
}

// Latest picks the newest revision carrying version,
// or the newest revision at all when version is nil.
func (p *Package) Latest(version *string) (RevisionRef, error) {
	for i := len(p.revisions) - 1; i >= 0; i-- {
		ref := p.revisions[i]
		if version == nil || ref.Version == *version {
			return ref, nil
		}
	}

	if version == nil {
		return RevisionRef{}, &packagetypes.PackageNotFoundError{Name: p.name}
	}
	return RevisionRef{}, &packagetypes.VersionNotFoundError{Name: p.name, Version: *version}
}

// Revision loads the revision selected by version, see Latest.
func (p *Package) Revision(ctx context.Context, version *string) (*packagetypes.Revision, error) {
	ref, err := p.Latest(version)
	if err != nil {
		return nil, err
	}

	files, err := FilesFromFolder(ctx, filepath.Join(p.dir, strconv.Itoa(ref.Release)))
	if err != nil {
		return nil, fmt.Errorf("load revision %d of package [%s]: %w", ref.Release, p.name, err)
	}

	registryVersion, err := p.registry.Version()
	if err != nil {
		return nil, fmt.Errorf("read registry version of %s: %w", p.registry.source.URL, err)
	}

	return packagetypes.NewRevision(packagetypes.RevisionInfo{
		Name:            p.name,
		Version:         ref.Version,
		Release:         strconv.Itoa(ref.Release),
		Source:          p.registry.source.URL,
		RegistryVersion: registryVersion,
	}, files), nil
}
