// Package version exposes build information of the binary.
package version

import (
	"runtime/debug"
)

// Info contains build information supplied during compile time.
type Info struct {
	*debug.BuildInfo
	// ApplicationVersion is set through ldflags, empty for development builds.
	ApplicationVersion string `json:"version"`
}

// version gets filled by a linker argument and should contain the app version.
var version string

// Get returns the build information of the running binary.
// Without module support only ApplicationVersion is filled.
func Get() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		buildInfo = &debug.BuildInfo{}
	}

	return Info{BuildInfo: buildInfo, ApplicationVersion: version}
}

// String returns the application version or "dev".
func (i Info) String() string {
	if i.ApplicationVersion == "" {
		return "dev"
	}
	return i.ApplicationVersion
}
