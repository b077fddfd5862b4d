package packagerepository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// FilesFromFolder reads all files of a revision directory.
func FilesFromFolder(ctx context.Context, path string) (packagetypes.Files, error) {
	return FilesFromFS(ctx, os.DirFS(path))
}

// FilesFromFS reads all files of the given FileSystem, hidden files excluded.
func FilesFromFS(ctx context.Context, src fs.FS) (packagetypes.Files, error) {
	verboseLog := logr.FromContextOrDiscard(ctx).V(1)
	files := packagetypes.Files{}

	walker := func(path string, entry fs.DirEntry, ioErr error) error {
		switch {
		case ioErr != nil:
			return fmt.Errorf("access file %s: %w", path, ioErr)

		case entry.Name() == ".":
			// continue at root

		case strings.HasPrefix(entry.Name(), "."):
			verboseLog.Info("skipping hidden file in revision", "path", path)
			if entry.IsDir() {
				return filepath.SkipDir
			}

		case entry.IsDir():

		default:
			data, err := fs.ReadFile(src, path)
			if err != nil {
				return fmt.Errorf("read file %s: %w", path, err)
			}
			files[path] = data
		}
		return nil
	}

	if err := fs.WalkDir(src, ".", walker); err != nil {
		return nil, fmt.Errorf("walk revision dir: %w", err)
	}
	return files, nil
}
