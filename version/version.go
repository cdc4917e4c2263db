// Package version reports build metadata for the textreel binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// String returns [Version], falling back to the module version recorded in
// the build info and then to "dev".
func String() string {
	if Version != "" {
		return Version
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if ok && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	return "dev"
}

// Info returns a multi-line description of the build.
func Info() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "version:  %s\n", String())
	fmt.Fprintf(&sb, "revision: %s\n", Revision)

	if Branch != "" {
		fmt.Fprintf(&sb, "branch:   %s\n", Branch)
	}

	if BuildUser != "" || BuildDate != "" {
		fmt.Fprintf(&sb, "built:    %s by %s\n", BuildDate, BuildUser)
	}

	fmt.Fprintf(&sb, "go:       %s %s/%s", GoVersion, GoOS, GoArch)

	return sb.String()
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
