package packagedeploy

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// InstalledCommand names the CLI extension of an installed package.
type InstalledCommand struct {
	Name string `json:"name"`
}

// InstalledPackage groups the instances of one package version from one source.
type InstalledPackage struct {
	PackageJSON packagetypes.PackageJSON
	Apps        []string
	Command     *InstalledCommand
	Endpoints   []Endpoint

	// by normalized app id
	appEndpoints map[string][]Endpoint
}

func (p InstalledPackage) Name() string        { return p.PackageJSON.Name() }
func (p InstalledPackage) Version() string     { return p.PackageJSON.Version() }
func (p InstalledPackage) Description() string { return p.PackageJSON.Description() }

// MarshalJSON emits package.json with apps, command and endpoints added.
func (p InstalledPackage) MarshalJSON() ([]byte, error) {
	out := p.PackageJSON.DeepCopy()
	if out == nil {
		out = packagetypes.PackageJSON{}
	}

	apps := p.Apps
	if apps == nil {
		apps = []string{}
	}
	out["apps"] = apps
	if p.Command != nil {
		out["command"] = p.Command
	}
	if p.Endpoints != nil {
		out["endpoints"] = p.Endpoints
	}
	return json.Marshal(map[string]any(out))
}

// ListFilter narrows the installed package list.
type ListFilter struct {
	// Name keeps only packages with this name.
	Name string
	// AppID keeps only packages running this app and reduces their apps to it.
	AppID string
	// Endpoints adds task endpoints of apps.
	Endpoints bool
}

type groupKey struct {
	name, version, source string
}

// List gathers the instances of all targets, groups them by package name,
// version and source and applies filter to the groups.
func (i *Installer) List(ctx context.Context, filter ListFilter) ([]InstalledPackage, error) {
	groups := map[groupKey]*InstalledPackage{}
	var order []groupKey

	for _, target := range i.targets {
		instances, err := target.Instances(ctx, filter.Endpoints)
		if err != nil {
			return nil, err
		}

		for _, inst := range instances {
			key := groupKey{inst.Name, inst.Version, inst.Source}
			pkg, ok := groups[key]
			if !ok {
				pkg = &InstalledPackage{
					PackageJSON:  inst.PackageJSON.DeepCopy(),
					appEndpoints: map[string][]Endpoint{},
				}
				if filter.Endpoints {
					pkg.Endpoints = []Endpoint{}
				}
				groups[key] = pkg
				order = append(order, key)
			}

			switch inst.Kind {
			case TargetApp:
				pkg.Apps = append(pkg.Apps, inst.AppID)
				pkg.Endpoints = append(pkg.Endpoints, inst.Endpoints...)
				id := NormalizeAppID(inst.AppID)
				pkg.appEndpoints[id] = append(pkg.appEndpoints[id], inst.Endpoints...)
			case TargetCLI:
				pkg.Command = &InstalledCommand{Name: inst.Name}
			}
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if ka.name != kb.name {
			return ka.name < kb.name
		}
		if ka.version != kb.version {
			return ka.version < kb.version
		}
		return ka.source < kb.source
	})

	var appID string
	if filter.AppID != "" {
		appID = NormalizeAppID(filter.AppID)
	}

	results := []InstalledPackage{}
	for _, key := range order {
		pkg := *groups[key]
		if filter.Name != "" && key.name != filter.Name {
			continue
		}
		if appID != "" {
			if !containsApp(pkg.Apps, appID) {
				continue
			}
			pkg.Apps = []string{appID}
			if filter.Endpoints {
				pkg.Endpoints = append([]Endpoint{}, pkg.appEndpoints[appID]...)
			}
		}
		sort.Strings(pkg.Apps)
		results = append(results, pkg)
	}
	return results, nil
}

func containsApp(apps []string, id string) bool {
	for _, a := range apps {
		if NormalizeAppID(a) == id {
			return true
		}
	}
	return false
}
