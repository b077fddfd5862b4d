package subcommand

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/opencontainers/go-digest"
)

// Installation is what the store needs to materialize a package's CLI extension.
type Installation struct {
	Name string
	// PackageJSON is the raw package.json of the installed revision.
	PackageJSON []byte
	Source      string
	Release     string
	// Command is the rendered command.json.
	Command map[string]any
}

type commandSpec struct {
	Pip      []string                         `json:"pip"`
	Binaries map[string]map[string]binarySpec `json:"binaries"`
}

type binarySpec struct {
	Kind        string        `json:"kind"`
	URL         string        `json:"url"`
	ContentHash []contentHash `json:"contentHash"`
}

type contentHash struct {
	Algo  string `json:"algo"`
	Value string `json:"value"`
}

// Runner executes external programs.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w\n%s", name, err, out.String())
	}
	return nil
}

// Install materializes the CLI extension of a package, replacing a previous entry.
// A failed install leaves no entry behind.
func (s *Store) Install(ctx context.Context, inst Installation) (err error) {
	spec, err := parseCommand(inst.Command)
	if err != nil {
		return fmt.Errorf("command definition of package [%s]: %w", inst.Name, err)
	}

	if _, err := s.Remove(inst.Name); err != nil {
		return err
	}

	dir := s.entryDir(inst.Name)
	if err := os.MkdirAll(filepath.Join(dir, envDir, binDir), 0o755); err != nil {
		return fmt.Errorf("create subcommand dir: %w", err)
	}
	defer func() {
		if err != nil {
			s.cfg.Log.V(1).Info("cleaning up failed subcommand install", "path", dir)
			_ = os.RemoveAll(dir)
		}
	}()

	if err := os.WriteFile(filepath.Join(dir, packageJSONFile), inst.PackageJSON, 0o644); err != nil {
		return err
	}
	info, err := json.Marshal(InstallInfo{PackageSource: inst.Source, ReleaseVersion: inst.Release})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, installJSONFile), info, 0o644); err != nil {
		return err
	}

	switch {
	case len(spec.Binaries) > 0:
		return s.installBinary(ctx, inst.Name, dir, spec.Binaries)
	case len(spec.Pip) > 0:
		return s.installPip(ctx, dir, spec.Pip)
	}
	return fmt.Errorf("command definition of package [%s] declares neither binaries nor pip requirements", inst.Name)
}

func parseCommand(command map[string]any) (*commandSpec, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, err
	}
	spec := &commandSpec{}
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *Store) installBinary(
	ctx context.Context, name, dir string, binaries map[string]map[string]binarySpec,
) error {
	platform := s.cfg.Platform
	bin, ok := binaries[platform.OS][platform.Arch]
	if !ok {
		return fmt.Errorf("The CLI subcommand for package [%s] is not available for platform [%s]", name, platform)
	}
	if bin.Kind != "" && bin.Kind != "executable" {
		return fmt.Errorf("unsupported binary kind %q", bin.Kind)
	}

	expected, err := expectedDigest(bin.ContentHash)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, envDir, binDir, CommandPrefix+name)
	s.cfg.Log.Info("downloading subcommand", "url", bin.URL, "path", target)

	body, err := s.open(ctx, bin.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	verifier := expected.Verifier()
	if _, err := io.Copy(io.MultiWriter(out, verifier), body); err != nil {
		out.Close()
		return fmt.Errorf("download %s: %w", bin.URL, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if !verifier.Verified() {
		return fmt.Errorf("The hash for the downloaded subcommand [%s] does not match the expected value [%s]",
			bin.URL, expected)
	}
	return nil
}

func expectedDigest(hashes []contentHash) (digest.Digest, error) {
	for _, h := range hashes {
		if h.Algo != string(digest.SHA256) {
			continue
		}
		d := digest.NewDigestFromEncoded(digest.SHA256, h.Value)
		if err := d.Validate(); err != nil {
			return "", fmt.Errorf("invalid content hash %q: %w", h.Value, err)
		}
		return d, nil
	}
	return "", errors.New("binary declares no sha256 content hash")
}

func (s *Store) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "file":
		return os.Open(filepath.FromSlash(u.Path))
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported url scheme %q for subcommand binary", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}

func (s *Store) installPip(ctx context.Context, dir string, requirements []string) error {
	s.cfg.Log.Info("creating virtualenv", "path", filepath.Join(dir, envDir))
	if err := s.cfg.Runner.Run(ctx, dir, "python3", "-m", "venv", envDir); err != nil {
		return fmt.Errorf("create virtualenv: %w", err)
	}

	pip := filepath.Join(dir, envDir, binDir, "pip")
	args := append([]string{"install", "--quiet"}, requirements...)
	if err := s.cfg.Runner.Run(ctx, dir, pip, args...); err != nil {
		return fmt.Errorf("install pip requirements: %w", err)
	}
	return nil
}
