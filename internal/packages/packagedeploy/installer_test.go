package packagedeploy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcos/dcos-package/internal/marathon"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
	"github.com/dcos/dcos-package/internal/subcommand"
	"github.com/dcos/dcos-package/internal/testutil"
)

type bufferPrinter struct {
	bytes.Buffer
}

func (p *bufferPrinter) PrintfOut(format string, args ...any) error {
	_, err := fmt.Fprintf(&p.Buffer, format, args...)
	return err
}

// fakeMarathon keeps launched apps in memory.
type fakeMarathon struct {
	mu   sync.Mutex
	apps []marathon.App
}

func (f *fakeMarathon) LaunchApp(_ context.Context, app map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := NormalizeAppID(app["id"].(string))
	for _, a := range f.apps {
		if a.ID == id {
			return &marathon.APIError{StatusCode: 409, Message: "app exists"}
		}
	}
	labels := map[string]string{}
	if l, ok := app["labels"].(map[string]any); ok {
		for k, v := range l {
			labels[k] = fmt.Sprint(v)
		}
	}
	f.apps = append(f.apps, marathon.App{
		ID: id, Labels: labels,
		Tasks: []marathon.Task{{Host: "10.0.0.1", Ports: []int{31000}}},
	})
	return nil
}

func (f *fakeMarathon) RemoveApp(_ context.Context, id string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.apps {
		if a.ID == id {
			f.apps = append(f.apps[:i], f.apps[i+1:]...)
			return nil
		}
	}
	return &marathon.APIError{StatusCode: 404, Message: "app not found"}
}

func (f *fakeMarathon) ListApps(_ context.Context, withTasks bool) ([]marathon.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]marathon.App, 0, len(f.apps))
	for _, a := range f.apps {
		if !withTasks {
			a.Tasks = nil
		}
		out = append(out, a)
	}
	return out, nil
}

const marathonTemplate = `{"id": "{{helloworld.id}}", "cpus": 0.1, "labels": {"team": "core"}}`

const configSchema = `{
  "type": "object",
  "properties": {
    "helloworld": {
      "type": "object",
      "properties": {
        "id": {"type": "string", "default": "helloworld"},
        "port": {"type": "integer", "default": 8080}
      }
    }
  }
}`

type revisionFixture struct {
	pj      map[string]any
	app     bool
	command string
}

func newRevision(t *testing.T, f revisionFixture) *packagetypes.Revision {
	t.Helper()

	pj := map[string]any{"name": "helloworld", "version": "0.1.0", "description": "Example"}
	for k, v := range f.pj {
		pj[k] = v
	}
	pjData, err := json.Marshal(pj)
	require.NoError(t, err)

	files := packagetypes.Files{
		packagetypes.PackageJSONFile: pjData,
		packagetypes.ConfigJSONFile:  []byte(configSchema),
	}
	if f.app {
		files[packagetypes.MarathonTemplateFile] = []byte(marathonTemplate)
	}
	if f.command != "" {
		files[packagetypes.CommandJSONFile] = []byte(f.command)
	}
	return packagetypes.NewRevision(packagetypes.RevisionInfo{
		Name: "helloworld", Version: "0.1.0", Release: "2",
		Source: "file:///universe", RegistryVersion: "2.0.0",
	}, files)
}

// binaryCommand writes a local binary and returns a command.json template installing it.
func binaryCommand(t *testing.T) string {
	t.Helper()
	const content = "#!/bin/sh\necho hello\n"
	path := filepath.Join(t.TempDir(), "dcos-helloworld")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))

	return fmt.Sprintf(`{"binaries": {"linux": {"x86-64": {
		"kind": "executable",
		"url": "file://%s",
		"contentHash": [{"algo": "sha256", "value": "%s"}]
	}}}}`, filepath.ToSlash(path), digest.FromString(content).Encoded())
}

type testEnv struct {
	installer *Installer
	store     *subcommand.Store
	printer   *bufferPrinter
}

func newTestEnv(t *testing.T, client marathon.Client, opts ...InstallerOption) testEnv {
	t.Helper()
	log := testr.New(t)
	store := subcommand.NewStore(t.TempDir(),
		subcommand.WithLog{Log: log},
		subcommand.WithPlatform{OS: "linux", Arch: "x86-64"})
	printer := &bufferPrinter{}

	opts = append([]InstallerOption{WithLog{Log: log}, WithPrinter{Printer: printer}}, opts...)
	installer := NewInstaller([]Target{
		NewAppTarget(client, log),
		NewCLITarget(store, log),
	}, opts...)
	return testEnv{installer: installer, store: store, printer: printer}
}

func TestInstall_CommandOnlyRevisionSkipsApp(t *testing.T) {
	t.Parallel()

	client := &testutil.MarathonClient{}
	client.On("ListApps", mock.Anything, false).Return([]marathon.App{}, nil)
	env := newTestEnv(t, client)

	rev := newRevision(t, revisionFixture{
		command: binaryCommand(t),
		pj:      map[string]any{"postInstallNotes": "Thank you."},
	})

	res, err := env.installer.Install(context.Background(), InstallRequest{
		Revision: rev,
		Targets:  TargetSelection{App: true, CLI: true},
	})
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, Proceed, res.Decision)
	assert.Equal(t, []TargetKind{TargetCLI}, res.Installed)
	assert.Equal(t, []TargetKind{TargetApp}, res.Skipped)
	assert.Equal(t, []string{"dcos helloworld"}, res.Commands)
	client.AssertNotCalled(t, "LaunchApp", mock.Anything, mock.Anything)

	assert.Equal(t, "Installing CLI subcommand for package [helloworld] version [0.1.0]\n"+
		"New command available: dcos helloworld\n"+
		"Thank you.\n", env.printer.String())

	installed, err := env.installer.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "helloworld", installed[0].Name())
	assert.Empty(t, installed[0].Apps)
	assert.Equal(t, &InstalledCommand{Name: "helloworld"}, installed[0].Command)
}

func TestAppTarget_ConnectsOnUse(t *testing.T) {
	t.Parallel()

	log := testr.New(t)
	connects := 0
	target := NewLazyAppTarget(func() (marathon.Client, error) {
		connects++
		return nil, errors.New("Missing required config parameter: core.dcos_url")
	}, log)
	store := subcommand.NewStore(t.TempDir(),
		subcommand.WithLog{Log: log},
		subcommand.WithPlatform{OS: "linux", Arch: "x86-64"})
	installer := NewInstaller([]Target{target, NewCLITarget(store, log)}, WithLog{Log: log})

	rev := newRevision(t, revisionFixture{app: true, command: binaryCommand(t)})

	res, err := installer.Install(context.Background(), InstallRequest{
		Revision: rev,
		Targets:  TargetSelection{CLI: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []TargetKind{TargetCLI}, res.Installed)

	removed, err := installer.Uninstall(context.Background(), UninstallRequest{
		Name:    "helloworld",
		Targets: TargetSelection{CLI: true},
	})
	require.NoError(t, err)
	assert.Equal(t, map[TargetKind]int{TargetCLI: 1}, removed.Removed)
	assert.Zero(t, connects)

	_, err = installer.Install(context.Background(), InstallRequest{Revision: rev})
	var partial *PartialTargetFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, TargetApp, partial.Failed)
	assert.Contains(t, err.Error(), "core.dcos_url")

	_, err = installer.Uninstall(context.Background(), UninstallRequest{Name: "helloworld"})
	require.Error(t, err)
	assert.Equal(t, 1, connects)
}

func TestInstall_AppFailureStopsBeforeCLI(t *testing.T) {
	t.Parallel()

	client := &testutil.MarathonClient{}
	client.On("LaunchApp", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	env := newTestEnv(t, client)

	rev := newRevision(t, revisionFixture{
		app:     true,
		command: binaryCommand(t),
		pj:      map[string]any{"postInstallNotes": "Thank you."},
	})

	res, err := env.installer.Install(context.Background(), InstallRequest{Revision: rev})
	var partial *PartialTargetFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, TargetApp, partial.Failed)
	assert.Empty(t, partial.Completed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateFailed, res.State)

	commands, err := env.store.Commands("helloworld")
	require.NoError(t, err)
	assert.Empty(t, commands)
	assert.NotContains(t, env.printer.String(), "Thank you.")
}

func TestInstall_CLIFailureKeepsApp(t *testing.T) {
	t.Parallel()

	fake := &fakeMarathon{}
	env := newTestEnv(t, fake)

	rev := newRevision(t, revisionFixture{
		app:     true,
		command: `{"binaries": {"plan9": {"x86-64": {"url": "file:///nope", "contentHash": []}}}}`,
	})

	_, err := env.installer.Install(context.Background(), InstallRequest{Revision: rev})
	var partial *PartialTargetFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, TargetCLI, partial.Failed)
	assert.Equal(t, []TargetKind{TargetApp}, partial.Completed)
	assert.Contains(t, err.Error(), "The Marathon app was installed successfully.")

	apps, err := fake.ListApps(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestInstall_PreInstallNotes(t *testing.T) {
	t.Parallel()

	rev := newRevision(t, revisionFixture{
		app: true,
		pj:  map[string]any{"preInstallNotes": "This is a beta.", "postInstallNotes": "Thank you."},
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		confirmer := &testutil.Confirmer{}
		confirmer.On("Confirm", "Continue installing?").Return(false, nil)
		client := &testutil.MarathonClient{}
		env := newTestEnv(t, client, WithConfirmer{Confirmer: confirmer})

		res, err := env.installer.Install(context.Background(), InstallRequest{Revision: rev})
		require.NoError(t, err)
		assert.Equal(t, Abort, res.Decision)
		assert.Equal(t, StateDone, res.State)
		assert.Equal(t, "This is a beta.\nExiting installation.\n", env.printer.String())
		client.AssertNotCalled(t, "LaunchApp", mock.Anything, mock.Anything)
		confirmer.AssertExpectations(t)
	})

	t.Run("yes skips the question", func(t *testing.T) {
		t.Parallel()

		confirmer := &testutil.Confirmer{}
		env := newTestEnv(t, &fakeMarathon{}, WithConfirmer{Confirmer: confirmer})

		res, err := env.installer.Install(context.Background(), InstallRequest{Revision: rev, Yes: true})
		require.NoError(t, err)
		assert.Equal(t, Proceed, res.Decision)
		assert.Equal(t, []TargetKind{TargetApp}, res.Installed)
		assert.Equal(t, "This is a beta.\n"+
			"Installing Marathon app for package [helloworld] version [0.1.0]\n"+
			"Thank you.\n", env.printer.String())
		confirmer.AssertNotCalled(t, "Confirm", mock.Anything)
	})
}

func TestInstall_InvalidOptionsAbortBeforeMutation(t *testing.T) {
	t.Parallel()

	client := &testutil.MarathonClient{}
	env := newTestEnv(t, client)
	rev := newRevision(t, revisionFixture{app: true, command: binaryCommand(t)})

	res, err := env.installer.Install(context.Background(), InstallRequest{
		Revision:    rev,
		UserOptions: map[string]any{"helloworld": map[string]any{"port": "not a port"}},
	})
	var verr *packagetypes.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateFailed, res.State)
	client.AssertNotCalled(t, "LaunchApp", mock.Anything, mock.Anything)
	assert.Empty(t, env.printer.String())
}

func TestInstall_AppDefinition(t *testing.T) {
	t.Parallel()

	client := &testutil.MarathonClient{}
	var launched map[string]any
	client.On("LaunchApp", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { launched = args.Get(1).(map[string]any) }).
		Return(nil)
	env := newTestEnv(t, client)

	rev := newRevision(t, revisionFixture{
		app:     true,
		command: `{"pip": ["dcos-helloworld=={{helloworld.port}}"]}`,
		pj:      map[string]any{"framework": true},
	})

	_, err := env.installer.Install(context.Background(), InstallRequest{
		Revision:    rev,
		Targets:     TargetSelection{App: true},
		AppID:       "/custom",
		UserOptions: map[string]any{"helloworld": map[string]any{"id": "ignored"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Installing Marathon app for package [helloworld] version [0.1.0] with app id [/custom]\n",
		env.printer.String())

	require.NotNil(t, launched)
	assert.Equal(t, "/custom", launched["id"])
	labels := launched["labels"].(map[string]any)
	assert.Equal(t, "core", labels["team"])
	assert.Equal(t, "helloworld", labels[LabelName])
	assert.Equal(t, "0.1.0", labels[LabelVersion])
	assert.Equal(t, "2", labels[LabelRelease])
	assert.Equal(t, "file:///universe", labels[LabelSource])
	assert.Equal(t, "2.0.0", labels[LabelRegistryVersion])
	assert.Equal(t, "true", labels[LabelIsFramework])

	pj, err := decodePackageJSON(labels[LabelMetadata].(string))
	require.NoError(t, err)
	assert.Equal(t, "helloworld", pj.Name())

	command, err := base64.StdEncoding.DecodeString(labels[LabelCommand].(string))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pip": ["dcos-helloworld==8080"]}`, string(command))
}
