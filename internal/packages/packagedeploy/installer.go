package packagedeploy

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"

	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// InstallState is the progress of one install attempt.
type InstallState string

const (
	StateResolved        InstallState = "Resolved"
	StateNoticeConfirmed InstallState = "NoticeConfirmed"
	StateAppInstalling   InstallState = "AppInstalling"
	StateCLIInstalling   InstallState = "CLIInstalling"
	StateDone            InstallState = "Done"
	StateFailed          InstallState = "Failed"
)

// Decision is the operator's answer to the pre-install notes.
type Decision string

const (
	Proceed Decision = "Proceed"
	Abort   Decision = "Abort"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Printer receives operator facing messages.
type Printer interface {
	PrintfOut(format string, args ...any) error
}

// Installer applies and removes packages across an ordered list of targets.
type Installer struct {
	targets []Target
	cfg     InstallerConfig
}

// NewInstaller creates an Installer. Targets are visited in the given order,
// usually the app target first so its failure is seen before local changes happen.
func NewInstaller(targets []Target, opts ...InstallerOption) *Installer {
	var cfg InstallerConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Installer{targets: targets, cfg: cfg}
}

type InstallerConfig struct {
	Log       logr.Logger
	Printer   Printer
	Confirmer Confirmer
}

func (c *InstallerConfig) Option(opts ...InstallerOption) {
	for _, opt := range opts {
		opt.ConfigureInstaller(c)
	}
}

func (c *InstallerConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Printer == nil {
		c.Printer = discardPrinter{}
	}
	if c.Confirmer == nil {
		c.Confirmer = declineConfirmer{}
	}
}

type InstallerOption interface {
	ConfigureInstaller(*InstallerConfig)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureInstaller(c *InstallerConfig) { c.Log = w.Log }

type WithPrinter struct{ Printer Printer }

func (w WithPrinter) ConfigureInstaller(c *InstallerConfig) { c.Printer = w.Printer }

type WithConfirmer struct{ Confirmer Confirmer }

func (w WithConfirmer) ConfigureInstaller(c *InstallerConfig) { c.Confirmer = w.Confirmer }

type discardPrinter struct{}

func (discardPrinter) PrintfOut(string, ...any) error { return nil }

// declineConfirmer is used without an operator to ask.
type declineConfirmer struct{}

func (declineConfirmer) Confirm(string) (bool, error) { return false, nil }

// InstallRequest describes one install attempt of a resolved revision.
type InstallRequest struct {
	Revision    *packagetypes.Revision
	UserOptions map[string]any
	Targets     TargetSelection
	AppID       string
	// Yes answers the pre-install confirmation without asking.
	Yes bool
}

// InstallResult reports how an install attempt ended.
type InstallResult struct {
	Decision  Decision
	State     InstallState
	Installed []TargetKind
	Skipped   []TargetKind
	Commands  []string
}

// Install applies a revision to the selected targets.
//
// Pre-install notes must be confirmed before anything changes; declining is not an error
// and yields Decision Abort. Options are merged and validated before the first target runs.
// Targets without a definition in the revision are skipped. The first failing target ends
// the attempt with a *PartialTargetFailureError, targets installed before it stay installed.
func (i *Installer) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	rev := req.Revision
	res := InstallResult{Decision: Proceed}
	i.transition(&res, rev, StateResolved)

	pj, err := rev.PackageJSON()
	if err != nil {
		return i.fail(&res, rev, err)
	}

	if notes := pj.PreInstallNotes(); notes != "" {
		if err := i.cfg.Printer.PrintfOut("%s\n", notes); err != nil {
			return i.fail(&res, rev, err)
		}
		ok := req.Yes
		if !ok {
			if ok, err = i.cfg.Confirmer.Confirm("Continue installing?"); err != nil {
				return i.fail(&res, rev, err)
			}
		}
		if !ok {
			res.Decision = Abort
			i.transition(&res, rev, StateDone)
			return res, i.cfg.Printer.PrintfOut("Exiting installation.\n")
		}
	}
	i.transition(&res, rev, StateNoticeConfirmed)

	opts, err := packagerender.Options(rev, req.UserOptions)
	if err != nil {
		return i.fail(&res, rev, err)
	}

	tr := TargetRequest{AppID: req.AppID}
	for _, target := range i.targets {
		kind := target.Kind()
		if !req.Targets.Includes(kind) {
			continue
		}
		if !target.Supports(rev) {
			i.cfg.Log.V(1).Info("package declares no definition for target, skipping", "package", rev.Name(), "target", kind)
			res.Skipped = append(res.Skipped, kind)
			continue
		}

		i.transition(&res, rev, installingState(kind))
		if err := i.cfg.Printer.PrintfOut("%s\n", target.Announce(rev, tr)); err != nil {
			return i.fail(&res, rev, err)
		}

		outcome, err := target.Install(ctx, rev, opts, tr)
		if err != nil {
			return i.fail(&res, rev, &PartialTargetFailureError{
				Operation: OperationInstall,
				Package:   rev.Name(),
				Failed:    kind,
				Completed: res.Installed,
				Err:       err,
			})
		}
		res.Installed = append(res.Installed, kind)

		if len(outcome.Commands) > 0 {
			res.Commands = append(res.Commands, outcome.Commands...)
			plural := ""
			if len(outcome.Commands) > 1 {
				plural = "s"
			}
			if err := i.cfg.Printer.PrintfOut("New command%s available: %s\n",
				plural, strings.Join(outcome.Commands, ", ")); err != nil {
				return i.fail(&res, rev, err)
			}
		}
	}

	if notes := pj.PostInstallNotes(); notes != "" && len(res.Installed) > 0 {
		if err := i.cfg.Printer.PrintfOut("%s\n", notes); err != nil {
			return i.fail(&res, rev, err)
		}
	}

	i.transition(&res, rev, StateDone)
	return res, nil
}

func installingState(kind TargetKind) InstallState {
	if kind == TargetApp {
		return StateAppInstalling
	}
	return StateCLIInstalling
}

func (i *Installer) transition(res *InstallResult, rev *packagetypes.Revision, state InstallState) {
	i.cfg.Log.V(1).Info("install state", "package", rev.Name(), "from", res.State, "to", state)
	res.State = state
}

func (i *Installer) fail(res *InstallResult, rev *packagetypes.Revision, err error) (InstallResult, error) {
	i.transition(res, rev, StateFailed)
	return *res, err
}

// UninstallRequest selects what to remove.
type UninstallRequest struct {
	Name    string
	AppID   string
	All     bool
	Targets TargetSelection
}

// UninstallResult counts removed instances per target.
type UninstallResult struct {
	Removed map[TargetKind]int
}

// Uninstall removes a package from the selected targets in target order.
// A target with nothing to remove is skipped; nothing removed at all
// yields *packagetypes.NotInstalledError.
func (i *Installer) Uninstall(ctx context.Context, req UninstallRequest) (UninstallResult, error) {
	res := UninstallResult{Removed: map[TargetKind]int{}}
	rr := RemoveRequest{PackageName: req.Name, AppID: req.AppID, All: req.All}

	var completed []TargetKind
	total := 0
	for _, target := range i.targets {
		kind := target.Kind()
		if !req.Targets.Includes(kind) {
			continue
		}

		n, err := target.Remove(ctx, rr)
		if n > 0 {
			res.Removed[kind] = n
			total += n
		}
		if err != nil {
			var ambiguous *AmbiguousAppError
			if errors.As(err, &ambiguous) && total == 0 {
				return res, err
			}
			return res, &PartialTargetFailureError{
				Operation: OperationUninstall,
				Package:   req.Name,
				Failed:    kind,
				Completed: completed,
				Err:       err,
			}
		}
		if n > 0 {
			completed = append(completed, kind)
		}
		i.cfg.Log.V(1).Info("uninstalled", "package", req.Name, "target", kind, "count", n)
	}

	if total == 0 {
		return res, &packagetypes.NotInstalledError{Name: req.Name}
	}
	return res, nil
}
