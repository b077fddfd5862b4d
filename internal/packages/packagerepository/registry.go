package packagerepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagesource"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// Registry versions this client understands.
const SupportedRegistryVersions = ">= 1.0.0-0, < 3.0.0-0"

const (
	metaDir     = "meta"
	indexFile   = "index.json"
	versionFile = "version.json"
	packagesDir = "packages"
)

// Index is the content of meta/index.json.
type Index struct {
	Version  string       `json:"version"`
	Packages []IndexEntry `json:"packages"`
}

// IndexEntry summarizes one package of a registry.
type IndexEntry struct {
	Name           string            `json:"name"`
	CurrentVersion string            `json:"currentVersion"`
	Versions       map[string]string `json:"versions,omitempty"`
	Description    string            `json:"description"`
	Framework      bool              `json:"framework"`
	Tags           []string          `json:"tags"`
	Maintainer     string            `json:"maintainer,omitempty"`
	Selected       bool              `json:"selected,omitempty"`
}

// Registry reads the local copy of one package source.
type Registry struct {
	source packagesource.Source
	dir    string

	versionOnce sync.Once
	version     string
	versionErr  error
}

// NewRegistry reads the registry rooted at dir, the repo/ directory of a fetched source.
func NewRegistry(src packagesource.Source, dir string) *Registry {
	return &Registry{source: src, dir: dir}
}

// RegistriesFromStore returns the registries of all sources in priority order.
func RegistriesFromStore(store *packagesource.Store, sources []packagesource.Source) []*Registry {
	registries := make([]*Registry, 0, len(sources))
	for _, src := range sources {
		registries = append(registries, NewRegistry(src, store.RepositoryDir(src)))
	}
	return registries
}

func (r *Registry) Source() packagesource.Source { return r.source }
func (r *Registry) Dir() string                  { return r.dir }

// Exists reports whether the source has been fetched.
func (r *Registry) Exists() bool {
	info, err := os.Stat(r.dir)
	return err == nil && info.IsDir()
}

// Version returns the registry version declared in meta/version.json.
func (r *Registry) Version() (string, error) {
	r.versionOnce.Do(func() {
		doc := struct {
			Version string `json:"version"`
		}{}
		if err := readJSON(filepath.Join(r.dir, metaDir, versionFile), &doc); err != nil {
			r.versionErr = err
			return
		}
		r.version = doc.Version
	})
	return r.version, r.versionErr
}

// CheckVersion verifies that this client can read the registry.
func (r *Registry) CheckVersion() error {
	v, err := r.Version()
	if err != nil {
		return err
	}
	return checkRegistryVersion(v)
}

func checkRegistryVersion(v string) error {
	constraint, err := semver.NewConstraint(SupportedRegistryVersions)
	if err != nil {
		return err
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("parse registry version %q: %w", v, err)
	}
	if !constraint.Check(sv) {
		return &UnsupportedVersionError{Version: v}
	}
	return nil
}

// UnsupportedVersionError is returned for registries outside SupportedRegistryVersions.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("Unable to use package source version [%s]; must satisfy [%s]",
		e.Version, SupportedRegistryVersions)
}

// Index reads meta/index.json.
func (r *Registry) Index() (*Index, error) {
	idx := &Index{}
	if err := readJSON(filepath.Join(r.dir, metaDir, indexFile), idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Package looks up a package by name.
// It returns a *packagetypes.PackageNotFoundError when the registry does not contain it.
func (r *Registry) Package(ctx context.Context, name string) (*Package, error) {
	if name == "" {
		return nil, &packagetypes.PackageNotFoundError{Name: name}
	}
	dir := filepath.Join(r.dir, packagesDir, strings.ToUpper(name[:1]), name)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &packagetypes.PackageNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("read package dir %s: %w", dir, err)
	}

	pkg := &Package{name: name, registry: r, dir: dir}
	for _, e := range entries {
		release, err := strconv.Atoi(e.Name())
		if !e.IsDir() || err != nil {
			logr.FromContextOrDiscard(ctx).V(1).Info("ignoring non revision entry", "path", filepath.Join(dir, e.Name()))
			continue
		}

		pj := packagetypes.PackageJSON{}
		if err := readJSON(filepath.Join(dir, e.Name(), packagetypes.PackageJSONFile), &pj); err != nil {
			return nil, err
		}
		pkg.revisions = append(pkg.revisions, RevisionRef{Release: release, Version: pj.Version()})
	}
	sort.Slice(pkg.revisions, func(i, j int) bool {
		return pkg.revisions[i].Release < pkg.revisions[j].Release
	})
	if len(pkg.revisions) == 0 {
		return nil, &packagetypes.PackageNotFoundError{Name: name}
	}
	return pkg, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
