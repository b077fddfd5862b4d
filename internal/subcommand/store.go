// Package subcommand manages CLI extensions installed by packages.
//
// Every package owns one entry directory below the store root:
//
//	<root>/<name>/package.json   package.json of the installed revision
//	<root>/<name>/install.json   source and release the entry was installed from
//	<root>/<name>/env/bin/dcos-* executables
package subcommand

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

const (
	// CommandPrefix starts the file name of every installed executable.
	CommandPrefix = "dcos-"

	packageJSONFile = "package.json"
	installJSONFile = "install.json"
	envDir          = "env"
	binDir          = "bin"
)

// InstallInfo is persisted as install.json.
type InstallInfo struct {
	PackageSource  string `json:"packageSource"`
	ReleaseVersion string `json:"releaseVersion"`
}

// Installed describes one installed entry.
type Installed struct {
	Name        string
	PackageJSON map[string]any
	Info        InstallInfo
	Commands    []string
}

// Store is the local CLI extension store rooted at a directory.
type Store struct {
	dir string
	cfg StoreConfig
}

func NewStore(dir string, opts ...StoreOption) *Store {
	var cfg StoreConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Store{dir: dir, cfg: cfg}
}

type StoreConfig struct {
	Log        logr.Logger
	HTTPClient *http.Client
	Runner     Runner
	// Platform selects the binaries entry of command.json.
	Platform Platform
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
	if c.Runner == nil {
		c.Runner = &ExecRunner{}
	}
	if c.Platform == (Platform{}) {
		c.Platform = CurrentPlatform()
	}
}

type StoreOption interface {
	ConfigureStore(*StoreConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureStore(c *StoreConfig) { c.Log = w.Log }

type WithHTTPClient struct{ Client *http.Client }

func (w WithHTTPClient) ConfigureStore(c *StoreConfig) { c.HTTPClient = w.Client }

type WithRunner struct{ Runner Runner }

func (w WithRunner) ConfigureStore(c *StoreConfig) { c.Runner = w.Runner }

type WithPlatform Platform

func (w WithPlatform) ConfigureStore(c *StoreConfig) { c.Platform = Platform(w) }

// Platform is an operating system and architecture pair as named in command.json.
type Platform struct {
	OS   string
	Arch string
}

func (p Platform) String() string { return p.OS + "/" + p.Arch }

// CurrentPlatform returns the platform this binary runs on.
func CurrentPlatform() Platform {
	arch := runtime.GOARCH
	if arch == "amd64" {
		arch = "x86-64"
	}
	return Platform{OS: runtime.GOOS, Arch: arch}
}

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

func (s *Store) entryDir(name string) string {
	return filepath.Join(s.dir, name)
}

// Remove deletes the entry of a package.
// It reports whether an entry existed.
func (s *Store) Remove(name string) (bool, error) {
	dir := s.entryDir(name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	s.cfg.Log.V(1).Info("removing subcommand", "package", name, "path", dir)
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("remove subcommand of package [%s]: %w", name, err)
	}
	return true, nil
}

// Commands lists the executables installed for a package, sorted.
func (s *Store) Commands(name string) ([]string, error) {
	bin := filepath.Join(s.entryDir(name), envDir, binDir)
	entries, err := os.ReadDir(bin)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var commands []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), CommandPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		commands = append(commands, filepath.Join(bin, e.Name()))
	}
	sort.Strings(commands)
	return commands, nil
}

// Installed lists all entries of the store sorted by name.
func (s *Store) Installed() ([]Installed, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var installed []Installed
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		inst, err := s.readEntry(e.Name())
		if err != nil {
			s.cfg.Log.Info("skipping broken subcommand entry", "package", e.Name(), "error", err.Error())
			continue
		}
		installed = append(installed, inst)
	}
	return installed, nil
}

func (s *Store) readEntry(name string) (Installed, error) {
	inst := Installed{Name: name, PackageJSON: map[string]any{}}
	dir := s.entryDir(name)

	if err := readJSON(filepath.Join(dir, packageJSONFile), &inst.PackageJSON); err != nil {
		return Installed{}, err
	}
	if err := readJSON(filepath.Join(dir, installJSONFile), &inst.Info); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return Installed{}, err
	}

	commands, err := s.Commands(name)
	if err != nil {
		return Installed{}, err
	}
	inst.Commands = commands
	return inst, nil
}

// CommandName turns an executable path into the command the user types,
// "/x/env/bin/dcos-foo-bar" becomes "dcos foo-bar".
func CommandName(path string) string {
	return strings.Replace(filepath.Base(path), "-", " ", 1)
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
