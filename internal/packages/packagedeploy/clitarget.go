package packagedeploy

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
	"github.com/dcos/dcos-package/internal/subcommand"
)

// CommandStore is the local store CLI extensions are installed into.
type CommandStore interface {
	Install(ctx context.Context, inst subcommand.Installation) error
	Remove(name string) (bool, error)
	Commands(name string) ([]string, error)
	Installed() ([]subcommand.Installed, error)
}

var (
	_ Target       = (*CLITarget)(nil)
	_ CommandStore = (*subcommand.Store)(nil)
)

// CLITarget installs packages as local CLI extensions.
type CLITarget struct {
	store CommandStore
	log   logr.Logger
}

func NewCLITarget(store CommandStore, log logr.Logger) *CLITarget {
	return &CLITarget{store: store, log: log}
}

func (t *CLITarget) Kind() TargetKind { return TargetCLI }

func (t *CLITarget) Supports(rev *packagetypes.Revision) bool {
	return rev.HasCommandDefinition()
}

func (t *CLITarget) Announce(rev *packagetypes.Revision, _ TargetRequest) string {
	return fmt.Sprintf("Installing CLI subcommand for package [%s] version [%s]", rev.Name(), rev.Version())
}

func (t *CLITarget) Install(
	ctx context.Context, rev *packagetypes.Revision,
	opts packagerender.OptionSet, _ TargetRequest,
) (InstallOutcome, error) {
	command, err := packagerender.CommandJSON(rev, opts)
	if err != nil {
		return InstallOutcome{}, err
	}
	pj, _ := rev.File(packagetypes.PackageJSONFile)

	if err := t.store.Install(ctx, subcommand.Installation{
		Name:        rev.Name(),
		PackageJSON: pj,
		Source:      rev.Source(),
		Release:     rev.Release(),
		Command:     command,
	}); err != nil {
		return InstallOutcome{}, err
	}

	paths, err := t.store.Commands(rev.Name())
	if err != nil {
		return InstallOutcome{}, err
	}
	outcome := InstallOutcome{Commands: make([]string, 0, len(paths))}
	for _, p := range paths {
		outcome.Commands = append(outcome.Commands, subcommand.CommandName(p))
	}
	return outcome, nil
}

func (t *CLITarget) Remove(_ context.Context, req RemoveRequest) (int, error) {
	removed, err := t.store.Remove(req.PackageName)
	if err != nil || !removed {
		return 0, err
	}
	t.log.V(1).Info("removed subcommand", "package", req.PackageName)
	return 1, nil
}

func (t *CLITarget) Instances(_ context.Context, _ bool) ([]Instance, error) {
	installed, err := t.store.Installed()
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, len(installed))
	for _, inst := range installed {
		pj := packagetypes.PackageJSON(inst.PackageJSON)
		instances = append(instances, Instance{
			Kind:        TargetCLI,
			Name:        inst.Name,
			Version:     pj.Version(),
			Source:      inst.Info.PackageSource,
			PackageJSON: pj,
		})
	}
	return instances, nil
}
