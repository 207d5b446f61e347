// SPDX-License-Identifier: MIT
//
// Package build manages build metadata embedded into the binary at
// compile time via -ldflags: application name, build timestamp, Git
// commit hash and semantic version. Development builds without ldflags
// fall back to placeholder values.
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Package-level variables populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{}
)

// Initialize copies build information from the ldflags variables into
// the buildFlags struct, substituting development defaults for anything
// the linker did not set. Must be called early in program startup.
func Initialize() {
	buildFlags.Name = orDefault(buildName, "analyzer")
	buildFlags.Time = orDefault(buildTime, "unknown")
	buildFlags.Commit = orDefault(buildCommit, "unknown")
	buildFlags.Version = orDefault(buildVersion, "dev")
}

// GetBuildFlags returns the current build information. Initialize must
// be called first.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
