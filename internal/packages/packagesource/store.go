package packagesource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// RepositoryDirName is the directory inside a fetched source holding the registry.
const RepositoryDirName = "repo"

// ValidateFunc checks the registry directory of a freshly fetched source.
type ValidateFunc func(ctx context.Context, repoDir string) error

// Store keeps local copies of package sources below a cache directory.
// Each source lives in <cache>/<source hash>.
type Store struct {
	cacheDir string
	cfg      StoreConfig
}

func NewStore(cacheDir string, opts ...StoreOption) *Store {
	var cfg StoreConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Store{
		cacheDir: cacheDir,
		cfg:      cfg,
	}
}

type StoreConfig struct {
	Log        logr.Logger
	HTTPClient *http.Client
	Validate   ValidateFunc
}

func (c *StoreConfig) Option(opts ...StoreOption) {
	for _, opt := range opts {
		opt.ConfigureStore(c)
	}
}

func (c *StoreConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

type StoreOption interface {
	ConfigureStore(*StoreConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureStore(c *StoreConfig) {
	c.Log = w.Log
}

type WithHTTPClient struct{ Client *http.Client }

func (w WithHTTPClient) ConfigureStore(c *StoreConfig) {
	c.HTTPClient = w.Client
}

type WithValidator struct{ Validate ValidateFunc }

func (w WithValidator) ConfigureStore(c *StoreConfig) {
	c.Validate = w.Validate
}

// CacheDir returns the root directory of the store.
func (s *Store) CacheDir() string { return s.cacheDir }

// Dir returns the local directory of a source.
func (s *Store) Dir(src Source) string {
	return filepath.Join(s.cacheDir, src.Hash())
}

// RepositoryDir returns the registry directory of a source.
func (s *Store) RepositoryDir(src Source) string {
	return filepath.Join(s.Dir(src), RepositoryDirName)
}

// Update fetches every source in order and replaces its local copy.
// A failing source does not stop the others; all errors are reported together.
// With validate set, each fetched registry is checked before it replaces the old copy.
func (s *Store) Update(ctx context.Context, sources []Source, validate bool) error {
	var errs []error
	for _, src := range sources {
		s.cfg.Log.Info("updating source", "url", src.URL)
		if err := s.updateSource(ctx, src, validate); err != nil {
			errs = append(errs, fmt.Errorf("Error fetching source [%s]: %w", src.URL, err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

func (s *Store) updateSource(ctx context.Context, src Source, validate bool) error {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Staging inside the cache keeps the final rename on one filesystem.
	tmp, err := os.MkdirTemp(s.cacheDir, ".update-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	fetched := filepath.Join(tmp, "fetched")
	if err := s.fetch(logr.NewContext(ctx, s.cfg.Log), src, fetched); err != nil {
		return err
	}

	root, err := locateRoot(fetched)
	if err != nil {
		return err
	}

	if validate && s.cfg.Validate != nil {
		s.cfg.Log.V(1).Info("validating source", "url", src.URL)
		if err := s.cfg.Validate(ctx, filepath.Join(root, RepositoryDirName)); err != nil {
			return err
		}
	}

	return swapDir(root, s.Dir(src), filepath.Join(tmp, "previous"))
}

// locateRoot finds the directory holding repo/, either dir itself
// or its only child directory, as produced by most zip archives.
func locateRoot(dir string) (string, error) {
	if isDir(filepath.Join(dir, RepositoryDirName)) {
		return dir, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var children []string
	for _, e := range entries {
		if e.IsDir() {
			children = append(children, e.Name())
		}
	}
	if len(children) == 1 {
		child := filepath.Join(dir, children[0])
		if isDir(filepath.Join(child, RepositoryDirName)) {
			return child, nil
		}
	}
	return "", errors.New("source does not contain a repo directory")
}

// swapDir moves src to dst, parking an existing dst in backup
// and restoring it when the move fails.
func swapDir(src, dst, backup string) error {
	hadPrevious := isDir(dst)
	if hadPrevious {
		if err := os.Rename(dst, backup); err != nil {
			return fmt.Errorf("move previous copy aside: %w", err)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, dst)
		}
		return fmt.Errorf("move source into place: %w", err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
