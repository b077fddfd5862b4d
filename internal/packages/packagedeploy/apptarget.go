package packagedeploy

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/marathon"
	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

var _ Target = (*AppTarget)(nil)

// AppTarget installs packages as scheduler apps.
type AppTarget struct {
	client func() (marathon.Client, error)
	log    logr.Logger
}

func NewAppTarget(client marathon.Client, log logr.Logger) *AppTarget {
	return NewLazyAppTarget(func() (marathon.Client, error) { return client, nil }, log)
}

// NewLazyAppTarget calls connect on first use of the scheduler.
func NewLazyAppTarget(connect func() (marathon.Client, error), log logr.Logger) *AppTarget {
	return &AppTarget{client: sync.OnceValues(connect), log: log}
}

func (t *AppTarget) Kind() TargetKind { return TargetApp }

func (t *AppTarget) Supports(rev *packagetypes.Revision) bool {
	return rev.HasMarathonDefinition()
}

func (t *AppTarget) Announce(rev *packagetypes.Revision, req TargetRequest) string {
	msg := fmt.Sprintf("Installing Marathon app for package [%s] version [%s]", rev.Name(), rev.Version())
	if req.AppID != "" {
		msg += fmt.Sprintf(" with app id [%s]", req.AppID)
	}
	return msg
}

func (t *AppTarget) Install(
	ctx context.Context, rev *packagetypes.Revision,
	opts packagerender.OptionSet, req TargetRequest,
) (InstallOutcome, error) {
	app, err := AppDefinition(rev, opts, req.AppID)
	if err != nil {
		return InstallOutcome{}, err
	}

	client, err := t.client()
	if err != nil {
		return InstallOutcome{}, err
	}

	t.log.V(1).Info("launching app", "package", rev.Name(), "id", app["id"])
	if err := client.LaunchApp(ctx, app); err != nil {
		return InstallOutcome{}, err
	}
	return InstallOutcome{}, nil
}

func (t *AppTarget) Remove(ctx context.Context, req RemoveRequest) (int, error) {
	client, err := t.client()
	if err != nil {
		return 0, err
	}
	apps, err := client.ListApps(ctx, false)
	if err != nil {
		return 0, err
	}

	var matching []string
	for _, app := range apps {
		if app.Labels[LabelName] != req.PackageName {
			continue
		}
		if req.AppID != "" && NormalizeAppID(app.ID) != NormalizeAppID(req.AppID) {
			continue
		}
		matching = append(matching, app.ID)
	}

	if !req.All && len(matching) > 1 {
		return 0, &AmbiguousAppError{Package: req.PackageName, AppIDs: matching}
	}

	for i, id := range matching {
		t.log.V(1).Info("removing app", "package", req.PackageName, "id", id)
		if err := client.RemoveApp(ctx, id, true); err != nil {
			return i, fmt.Errorf("remove app [%s]: %w", id, err)
		}
	}
	return len(matching), nil
}

func (t *AppTarget) Instances(ctx context.Context, withEndpoints bool) ([]Instance, error) {
	client, err := t.client()
	if err != nil {
		return nil, err
	}
	apps, err := client.ListApps(ctx, withEndpoints)
	if err != nil {
		return nil, err
	}

	var instances []Instance
	for _, app := range apps {
		encoded, ok := app.Labels[LabelMetadata]
		if !ok {
			continue
		}
		pj, err := decodePackageJSON(encoded)
		if err != nil {
			t.log.Info("ignoring app with broken package metadata", "id", app.ID, "error", err.Error())
			continue
		}

		inst := Instance{
			Kind:        TargetApp,
			Name:        app.Labels[LabelName],
			Version:     app.Labels[LabelVersion],
			Source:      app.Labels[LabelSource],
			PackageJSON: pj,
			AppID:       app.ID,
		}
		if inst.Name == "" {
			inst.Name = pj.Name()
		}
		if inst.Version == "" {
			inst.Version = pj.Version()
		}
		if withEndpoints {
			inst.Endpoints = make([]Endpoint, 0, len(app.Tasks))
			for _, task := range app.Tasks {
				inst.Endpoints = append(inst.Endpoints, Endpoint{Host: task.Host, Ports: task.Ports})
			}
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
