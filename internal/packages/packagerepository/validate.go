package packagerepository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/dcos/dcos-package/internal/packages/packagevalidation"
)

// ValidateRepository checks a registry directory: its version must be supported
// and every revision's descriptor files must satisfy their schemas.
// All problems are reported together.
func ValidateRepository(ctx context.Context, repoDir string) error {
	log := logr.FromContextOrDiscard(ctx)

	var version struct {
		Version string `json:"version"`
	}
	if err := readJSON(filepath.Join(repoDir, metaDir, versionFile), &version); err != nil {
		return fmt.Errorf("read registry version: %w", err)
	}
	if err := checkRegistryVersion(version.Version); err != nil {
		return err
	}

	revisionDirs, err := filepath.Glob(filepath.Join(repoDir, packagesDir, "*", "*", "*"))
	if err != nil {
		return err
	}

	var errs []error
	for _, dir := range revisionDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		log.V(1).Info("validating revision", "path", dir)

		files, err := FilesFromFolder(ctx, dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		errs = append(errs, packagevalidation.ValidateFiles(dir, files)...)
	}
	return utilerrors.NewAggregate(errs)
}
