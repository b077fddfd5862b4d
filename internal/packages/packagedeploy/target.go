package packagedeploy

import (
	"context"

	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// TargetKind names one of the two installable surfaces of a package.
type TargetKind string

const (
	// TargetApp is the application managed by the cluster scheduler.
	TargetApp TargetKind = "app"
	// TargetCLI is the local CLI extension.
	TargetCLI TargetKind = "cli"
)

// TargetSelection holds the targets requested by the operator.
type TargetSelection struct {
	App bool
	CLI bool
}

// Normalize selects both targets when none was requested explicitly.
func (s TargetSelection) Normalize() TargetSelection {
	if !s.App && !s.CLI {
		return TargetSelection{App: true, CLI: true}
	}
	return s
}

// Includes reports whether the normalized selection contains kind.
func (s TargetSelection) Includes(kind TargetKind) bool {
	n := s.Normalize()
	switch kind {
	case TargetApp:
		return n.App
	case TargetCLI:
		return n.CLI
	}
	return false
}

// TargetRequest carries per call parameters of install operations.
type TargetRequest struct {
	// AppID overrides the id of the rendered app definition.
	AppID string
}

// RemoveRequest selects what a target removes.
type RemoveRequest struct {
	PackageName string
	// AppID limits app removal to one instance.
	AppID string
	// All removes every matching instance instead of failing on ambiguity.
	All bool
}

// InstallOutcome is returned by a successful target install.
type InstallOutcome struct {
	// Commands lists CLI commands that became available, e.g. "dcos helloworld".
	Commands []string
}

// Target is one installable surface of a package.
type Target interface {
	Kind() TargetKind
	// Supports reports whether the revision declares a definition for this target.
	Supports(rev *packagetypes.Revision) bool
	// Announce returns the message printed before Install.
	Announce(rev *packagetypes.Revision, req TargetRequest) string
	Install(
		ctx context.Context, rev *packagetypes.Revision,
		opts packagerender.OptionSet, req TargetRequest,
	) (InstallOutcome, error)
	// Remove deletes matching instances and returns how many were removed.
	// Nothing to remove is not an error.
	Remove(ctx context.Context, req RemoveRequest) (int, error)
	// Instances lists everything this target has installed.
	Instances(ctx context.Context, withEndpoints bool) ([]Instance, error)
}

// Instance is one installed package instance as reported by a target.
type Instance struct {
	Kind        TargetKind
	Name        string
	Version     string
	Source      string
	PackageJSON packagetypes.PackageJSON
	// AppID is set for app instances.
	AppID string
	// Endpoints of app instances, when requested.
	Endpoints []Endpoint
}

// Endpoint is a host with the ports a task listens on.
type Endpoint struct {
	Host  string `json:"host"`
	Ports []int  `json:"ports"`
}
