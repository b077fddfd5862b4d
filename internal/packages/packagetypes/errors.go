package packagetypes

import (
	"fmt"
	"strings"
)

// PackageNotFoundError is returned when no configured source knows the package.
type PackageNotFoundError struct {
	Name string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("Package [%s] not found", e.Name)
}

// VersionNotFoundError is returned when the package exists
// but the requested version is absent from its revision map.
type VersionNotFoundError struct {
	Name    string
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("Version %s of package [%s] is not available", e.Version, e.Name)
}

// ValidationError lists every schema or format violation found in a document.
type ValidationError struct {
	// Path of the validated file, if any.
	Path string
	// Subject names the validated document when it is not a file.
	Subject    string
	Violations []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	switch {
	case e.Path != "":
		fmt.Fprintf(&b, "Error validating JSON file [%s]", e.Path)
	case e.Subject != "":
		b.WriteString("Error validating " + e.Subject)
	default:
		b.WriteString("Error validating JSON")
	}
	for _, v := range e.Violations {
		b.WriteString("\n")
		b.WriteString(v)
	}
	return b.String()
}

// ConflictError is returned when an output file already exists.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Output file [%s] already exists", e.Path)
}

// NotInstalledError is returned when an uninstall found nothing to remove.
type NotInstalledError struct {
	Name string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("Package [%s] is not installed.", e.Name)
}

// ViolationError describes which part of a package directory violates the archive layout.
type ViolationError struct {
	Reason  ViolationReason
	Path    string
	Details string
}

func (v ViolationError) Error() string {
	if v.Reason == "" {
		v.Reason = ViolationReasonUnknown
	}

	msg := string(v.Reason)
	if v.Path != "" {
		msg += fmt.Sprintf(" [%s]", v.Path)
	}
	if v.Details != "" {
		msg += ": " + v.Details
	}
	return msg
}

// ViolationReason shortly describes how a package directory violates the archive layout.
type ViolationReason string

const (
	ViolationReasonPackageJSONMissing ViolationReason = "The file package.json is required in the package directory"
	ViolationReasonExtraFile          ViolationReason = "Error bundling package. Extra file in package directory"
	ViolationReasonInvalidImage       ViolationReason = "Error bundling package. Invalid image in package directory"
	ViolationReasonUnknown            ViolationReason = "Error bundling package"
)
