// Package config holds the CLI configuration read from the dcos.toml file.
package config

import (
	"crypto/tls"
	"crypto/x509"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
	"github.com/dcos/dcos-package/internal/packages/packagevalidation"
)

const (
	// DefaultDirName is the configuration directory below the home directory.
	DefaultDirName = ".dcos"
	// DefaultFileName is the configuration file name inside the configuration directory.
	DefaultFileName = "dcos.toml"

	subcommandsDirName = "subcommands"
	cacheDirName       = "cache"
)

//go:embed schemas/package.json
var packageSchema []byte

// PackageSchema returns the JSON schema of the [package] section.
func PackageSchema() []byte {
	out := make([]byte, len(packageSchema))
	copy(out, packageSchema)
	return out
}

// Config is the decoded configuration file.
type Config struct {
	Core     Core     `toml:"core"`
	Marathon Marathon `toml:"marathon"`
	Package  Package  `toml:"package"`

	path string
	raw  map[string]any
}

type Core struct {
	DcosURL      string `toml:"dcos_url"`
	DcosACSToken string `toml:"dcos_acs_token"`
	// SSLVerify is "true", "false" or the path of a CA bundle.
	SSLVerify string `toml:"ssl_verify"`
	// Timeout of HTTP requests in seconds.
	Timeout int `toml:"timeout"`
}

type Marathon struct {
	URL string `toml:"url"`
}

type Package struct {
	Sources []string `toml:"sources"`
	Cache   string   `toml:"cache"`
}

// ErrNoSources is returned when no package source is configured.
var ErrNoSources = errors.New("No package sources configured. Please set package.sources in the configuration")

// DefaultPath returns ~/.dcos/dcos.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// Load reads the configuration file at path.
// A missing file results in an empty configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, raw: map[string]any{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data and validates its package section.
// path is the location the data was read from.
func Parse(path string, data []byte) (*Config, error) {
	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing config file [%s]: %w", path, err)
	}
	if err := validatePackageSection(raw); err != nil {
		return nil, err
	}

	c := &Config{path: path, raw: raw}
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("parsing config file [%s]: %w", path, err)
	}
	return c, nil
}

func validatePackageSection(raw map[string]any) error {
	section, ok := raw["package"]
	if !ok {
		return nil
	}
	schema, err := packagevalidation.ParseSchema(packageSchema)
	if err != nil {
		return err
	}
	if violations := schema.Violations(toJSONValue(section)); len(violations) > 0 {
		return &packagetypes.ValidationError{Subject: "config section [package]", Violations: violations}
	}
	return nil
}

// TOML decodes integers as int64 and arrays of tables as []map[string]any.
func toJSONValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = toJSONValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, toJSONValue(e))
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, toJSONValue(e))
		}
		return out
	case int64:
		return float64(v)
	default:
		return v
	}
}

// Path returns the location of the configuration file.
func (c *Config) Path() string { return c.path }

// Dir returns the configuration directory.
func (c *Config) Dir() string { return filepath.Dir(c.path) }

// Get looks up a dotted key like "package.sources".
func (c *Config) Get(key string) (any, bool) {
	var cur any = c.raw
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Sources returns the configured package sources in priority order.
func (c *Config) Sources() ([]string, error) {
	if len(c.Package.Sources) == 0 {
		return nil, ErrNoSources
	}
	return c.Package.Sources, nil
}

// CacheDir returns package.cache or the cache directory next to the config file.
func (c *Config) CacheDir() string {
	if c.Package.Cache != "" {
		return c.Package.Cache
	}
	return filepath.Join(c.Dir(), cacheDirName)
}

// SubcommandsDir returns the directory of installed CLI subcommands.
func (c *Config) SubcommandsDir() string {
	return filepath.Join(c.Dir(), subcommandsDirName)
}

// MarathonURL returns marathon.url or falls back to the cluster URL.
func (c *Config) MarathonURL() (string, error) {
	if c.Marathon.URL != "" {
		return c.Marathon.URL, nil
	}
	if c.Core.DcosURL == "" {
		return "", errors.New("Missing required config parameter: core.dcos_url. Please run `dcos config set core.dcos_url <value>`")
	}
	return strings.TrimSuffix(c.Core.DcosURL, "/") + "/marathon", nil
}

// Timeout returns the HTTP timeout, zero if none is configured.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Core.Timeout) * time.Second
}

// TLSConfig returns the TLS settings derived from core.ssl_verify.
// A nil config means the system defaults apply.
func (c *Config) TLSConfig() (*tls.Config, error) {
	verify := strings.TrimSpace(c.Core.SSLVerify)
	if verify == "" {
		return nil, nil
	}
	if b, err := strconv.ParseBool(verify); err == nil {
		if b {
			return nil, nil
		}
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec
	}

	pem, err := os.ReadFile(verify)
	if err != nil {
		return nil, fmt.Errorf("reading CA bundle from core.ssl_verify: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in CA bundle [%s]", verify)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
