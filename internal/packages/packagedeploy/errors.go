package packagedeploy

import (
	"fmt"
	"strings"
)

// Operation is the lifecycle operation a PartialTargetFailureError happened in.
type Operation string

const (
	OperationInstall   Operation = "install"
	OperationUninstall Operation = "uninstall"
)

// PartialTargetFailureError is returned when a target failed.
// Targets listed in Completed finished before the failure and stay as they are.
type PartialTargetFailureError struct {
	Operation Operation
	Package   string
	Failed    TargetKind
	Completed []TargetKind
	Err       error
}

func (e *PartialTargetFailureError) Error() string {
	msg := fmt.Sprintf("Failed to %s the %s of package [%s]: %v", e.Operation, describeTarget(e.Failed), e.Package, e.Err)
	if len(e.Completed) > 0 {
		done := make([]string, len(e.Completed))
		for i, k := range e.Completed {
			done[i] = describeTarget(k)
		}
		verb := "installed"
		if e.Operation == OperationUninstall {
			verb = "removed"
		}
		msg += fmt.Sprintf("\nThe %s was %s successfully.", strings.Join(done, " and "), verb)
	}
	return msg
}

func (e *PartialTargetFailureError) Unwrap() error { return e.Err }

func describeTarget(k TargetKind) string {
	switch k {
	case TargetApp:
		return "Marathon app"
	case TargetCLI:
		return "CLI subcommand"
	}
	return string(k)
}

// AmbiguousAppError is returned when several apps match an uninstall
// that neither named an app id nor asked for all of them.
type AmbiguousAppError struct {
	Package string
	AppIDs  []string
}

func (e *AmbiguousAppError) Error() string {
	return fmt.Sprintf("Multiple apps named [%s] are installed: [%s].\n"+
		"Please use --app-id to specify the ID of the app to uninstall, or use --all to uninstall all apps.",
		e.Package, strings.Join(e.AppIDs, ", "))
}
