package cmd

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"k8s.io/utils/ptr"
)

func TestWithLog(t *testing.T) {
	t.Parallel()

	log := testr.New(t)
	opt := WithLog{Log: log}

	var repo RepositoryConfig
	opt.ConfigureRepository(&repo)
	assert.Equal(t, log, repo.Log)

	var describe DescribeConfig
	opt.ConfigureDescribe(&describe)
	assert.Equal(t, log, describe.Log)

	var install InstallConfig
	opt.ConfigureInstall(&install)
	assert.Equal(t, log, install.Log)

	var uninstall UninstallConfig
	opt.ConfigureUninstall(&uninstall)
	assert.Equal(t, log, uninstall.Log)

	var bundle BundleConfig
	opt.ConfigureBundle(&bundle)
	assert.Equal(t, log, bundle.Log)
}

func TestDefaultLogIsDiscard(t *testing.T) {
	t.Parallel()

	var cfg RepositoryConfig
	cfg.Default()
	assert.Equal(t, logr.Discard(), cfg.Log)
}

func TestInstallPackageConfig_Option(t *testing.T) {
	t.Parallel()

	var cfg InstallPackageConfig
	cfg.Option(
		WithVersion{Version: ptr.To("0.1.0")},
		WithOptionsPath("opts.json"),
		WithAppID("/hello"),
		WithApp(true),
		WithCLI(true),
		WithYes(true),
	)

	assert.Equal(t, InstallPackageConfig{
		Version:     ptr.To("0.1.0"),
		OptionsPath: "opts.json",
		AppID:       "/hello",
		App:         true,
		CLI:         true,
		Yes:         true,
	}, cfg)
}

func TestUninstallPackageConfig_Option(t *testing.T) {
	t.Parallel()

	var cfg UninstallPackageConfig
	cfg.Option(WithAll(true), WithAppID("/hello"), WithApp(true), WithCLI(false))

	assert.Equal(t, UninstallPackageConfig{All: true, AppID: "/hello", App: true}, cfg)
}

func TestDescribePackageConfig(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		Options  []DescribePackageOption
		Expected DescribePackageConfig
		Error    error
	}{
		"options imply render": {
			Options:  []DescribePackageOption{WithApp(true), WithOptionsPath("opts.json")},
			Expected: DescribePackageConfig{App: true, OptionsPath: "opts.json", Render: true},
		},
		"versions alone": {
			Options:  []DescribePackageOption{WithPackageVersions(true)},
			Expected: DescribePackageConfig{PackageVersions: true},
		},
		"versions with config": {
			Options:  []DescribePackageOption{WithPackageVersions(true), WithConfig(true)},
			Expected: DescribePackageConfig{PackageVersions: true, Config: true},
			Error:    ErrPackageVersionsExclusive,
		},
		"versions with version": {
			Options:  []DescribePackageOption{WithPackageVersions(true), WithVersion{Version: ptr.To("")}},
			Expected: DescribePackageConfig{PackageVersions: true, Version: ptr.To("")},
			Error:    ErrPackageVersionsExclusive,
		},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var cfg DescribePackageConfig
			cfg.Option(tc.Options...)
			cfg.Default()

			assert.Equal(t, tc.Expected, cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.Error)
		})
	}
}

func TestListPackagesConfig_Option(t *testing.T) {
	t.Parallel()

	var cfg ListPackagesConfig
	cfg.Option(WithName("helloworld"), WithAppID("/hello"), WithEndpoints(true))

	assert.Equal(t, ListPackagesConfig{Name: "helloworld", AppID: "/hello", Endpoints: true}, cfg)
}

func TestWithHeaders(t *testing.T) {
	t.Parallel()

	var cfg TableConfig
	WithHeaders{"NAME"}.ConfigureTable(&cfg)
	assert.Equal(t, []string{"NAME"}, cfg.Headers)
}
