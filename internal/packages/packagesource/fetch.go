package packagesource

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-logr/logr"
)

// fetch downloads the content of a source into dst.
// dst must not exist yet.
func (s *Store) fetch(ctx context.Context, src Source, dst string) error {
	kind, u, err := src.kind()
	if err != nil {
		return err
	}

	log := logr.FromContextOrDiscard(ctx).V(1)
	log.Info("fetching source", "url", src.URL, "kind", kind)

	switch kind {
	case sourceKindGit:
		return fetchGit(ctx, u, dst)
	case sourceKindHTTP:
		return s.fetchHTTP(ctx, u, dst)
	default:
		return fetchFile(ctx, u, dst)
	}
}

func fetchGit(ctx context.Context, u *url.URL, dst string) error {
	cloneURL := *u
	cloneURL.Scheme = strings.TrimPrefix(cloneURL.Scheme, "git+")

	if _, err := git.PlainCloneContext(ctx, dst, false, &git.CloneOptions{
		URL:   cloneURL.String(),
		Depth: 1,
	}); err != nil {
		return fmt.Errorf("clone %s: %w", cloneURL.String(), err)
	}
	return nil
}

func (s *Store) fetchHTTP(ctx context.Context, u *url.URL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", u, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("download %s: %w", u, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open archive from %s: %w", u, err)
	}
	return extractZip(ctx, zr, dst)
}

func fetchFile(ctx context.Context, u *url.URL, dst string) error {
	path := filepath.FromSlash(u.Path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("access source %s: %w", u, err)
	}

	if info.IsDir() {
		return copyDir(ctx, path, dst)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()
	return extractZip(ctx, &zr.Reader, dst)
}

func extractZip(ctx context.Context, zr *zip.Reader, dst string) error {
	verboseLog := logr.FromContextOrDiscard(ctx).V(1)
	root := filepath.Clean(dst)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	for _, f := range zr.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the target directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		verboseLog.Info("extracting file", "path", f.Name)
		if err := extractZipFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(ctx context.Context, src, dst string) error {
	verboseLog := logr.FromContextOrDiscard(ctx).V(1)

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, ioErr error) error {
		if ioErr != nil {
			return fmt.Errorf("access file %s: %w", path, ioErr)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir() && rel != "." && entry.Name() == ".git":
			return filepath.SkipDir

		case entry.IsDir():
			return os.MkdirAll(target, 0o755)

		case !entry.Type().IsRegular():
			verboseLog.Info("skipping non regular file in source", "path", path)
			return nil
		}

		verboseLog.Info("copying source file", "path", rel)
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
