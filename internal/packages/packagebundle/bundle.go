// Package packagebundle builds distributable package archives from package directories.
package packagebundle

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/opencontainers/go-digest"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
	"github.com/dcos/dcos-package/internal/packages/packagevalidation"
)

// Entries get a fixed timestamp so archives only depend on file contents.
var archiveModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

var iconFiles = map[string]struct{}{
	"icon-small.png":  {},
	"icon-medium.png": {},
	"icon-large.png":  {},
}

// Bundler creates package archives.
type Bundler struct {
	cfg BundlerConfig
}

func NewBundler(opts ...BundlerOption) *Bundler {
	var cfg BundlerConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Bundler{cfg: cfg}
}

type BundlerConfig struct {
	Log logr.Logger
}

func (c *BundlerConfig) Option(opts ...BundlerOption) {
	for _, opt := range opts {
		opt.ConfigureBundler(c)
	}
}

func (c *BundlerConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type BundlerOption interface {
	ConfigureBundler(*BundlerConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureBundler(c *BundlerConfig) { c.Log = w.Log }

// Bundle archives the package directory srcDir into outputDir
// and returns the path of the archive, named {name}-{version}-{sha256}.zip.
// An empty outputDir means the working directory.
//
// Every entry of srcDir must be part of the package layout, descriptor files must
// satisfy their schemas and images must be PNGs. Nothing is written to outputDir
// unless the whole archive was built, an existing archive is never overwritten.
func (b *Bundler) Bundle(ctx context.Context, srcDir, outputDir string) (string, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		outputDir = wd
	}
	b.cfg.Log.V(1).Info("using output directory", "path", outputDir)

	pjPath := filepath.Join(srcDir, packagetypes.PackageJSONFile)
	if _, err := os.Stat(pjPath); errors.Is(err, fs.ErrNotExist) {
		return "", packagetypes.ViolationError{
			Reason: packagetypes.ViolationReasonPackageJSONMissing,
			Path:   srcDir,
		}
	}
	pj, err := validateJSONFile(pjPath)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(outputDir, ".bundle-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temporary archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := b.write(ctx, tmp, srcDir); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	dgst, err := fileDigest(tmp.Name())
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s-%s.zip", packagetypes.PackageJSON(pj).Name(), packagetypes.PackageJSON(pj).Version(), dgst.Encoded())
	dst := filepath.Join(outputDir, name)
	if err := moveNoClobber(tmp.Name(), dst); err != nil {
		return "", err
	}
	b.cfg.Log.Info("created package archive", "path", dst)
	return dst, nil
}

func (b *Bundler) write(ctx context.Context, w io.Writer, srcDir string) error {
	zw := zip.NewWriter(w)
	a := &archive{zw: zw, log: b.cfg.Log.V(1)}

	if err := a.addTopLevel(ctx, srcDir); err != nil {
		return err
	}
	return zw.Close()
}

type archive struct {
	zw  *zip.Writer
	log logr.Logger
}

func (a *archive) addTopLevel(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir) // sorted by name
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())
		switch {
		case e.Name() == packagetypes.MarathonTemplateFile && !e.IsDir():
			err = a.addFile(path, e.Name())

		case packagevalidation.IsSchemaCheckedFile(e.Name()) && !e.IsDir():
			if _, err = validateJSONFile(path); err == nil {
				err = a.addFile(path, e.Name())
			}

		case e.Name() == "assets" && e.IsDir():
			err = a.addAssets(path)

		case e.Name() == "images" && e.IsDir():
			err = a.addImages(path)

		default:
			err = extraFile(path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *archive) addAssets(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.Name() != "uris" || !e.IsDir() {
			return extraFile(path)
		}
		if err := a.addFlatDir(path, "assets/uris", nil); err != nil {
			return err
		}
	}
	return nil
}

func (a *archive) addImages(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		_, isIcon := iconFiles[e.Name()]

		switch {
		case isIcon && !e.IsDir():
			if err := validateImage(path); err != nil {
				return err
			}
			if err := a.addFile(path, "images/"+e.Name()); err != nil {
				return err
			}

		case e.Name() == "screenshots" && e.IsDir():
			if err := a.addFlatDir(path, "images/screenshots", validateImage); err != nil {
				return err
			}

		default:
			return extraFile(path)
		}
	}
	return nil
}

// addFlatDir archives every file of dir below prefix, nested directories are not allowed.
func (a *archive) addFlatDir(dir, prefix string, check func(path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			return extraFile(path)
		}
		if check != nil {
			if err := check(path); err != nil {
				return err
			}
		}
		if err := a.addFile(path, prefix+"/"+e.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (a *archive) addFile(path, name string) error {
	a.log.Info("adding file to archive", "path", path, "name", name)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: archiveModTime,
	}
	hdr.SetMode(0o644)

	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}

func extraFile(path string) error {
	return packagetypes.ViolationError{
		Reason: packagetypes.ViolationReasonExtraFile,
		Path:   path,
	}
}

func validateJSONFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return packagevalidation.ValidateFile(filepath.Base(path), path, data)
}

func validateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := packagevalidation.ValidatePNG(f); err != nil {
		return packagetypes.ViolationError{
			Reason:  packagetypes.ViolationReasonInvalidImage,
			Path:    path,
			Details: err.Error(),
		}
	}
	return nil
}

func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest.SHA256.FromReader(f)
}

// moveNoClobber moves src to dst and fails with a *packagetypes.ConflictError if dst exists.
func moveNoClobber(src, dst string) error {
	err := os.Link(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return &packagetypes.ConflictError{Path: dst}
	}

	// Filesystems without hard links.
	if _, statErr := os.Lstat(dst); statErr == nil {
		return &packagetypes.ConflictError{Path: dst}
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}
