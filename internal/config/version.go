package config

import "fmt"

// Build metadata, stamped with -ldflags "-X .../config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string { return Version }

// GetBuild returns the build timestamp.
func GetBuild() string { return Build }

// GetGitCommit returns the git commit hash.
func GetGitCommit() string { return GitCommit }

// GetFullVersion returns version with build info, as printed by -version.
func GetFullVersion() string {
	return fmt.Sprintf("vire-reports %s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// VersionInfo returns the version fields served by /api/version and the
// get_version MCP tool.
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"build":      Build,
		"git_commit": GitCommit,
	}
}
