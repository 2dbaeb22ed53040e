package core

import "fmt"

// Build metadata, injected with
//
//	go build -ldflags "-X bgclear/core.Version=v1.2.0 -X bgclear/core.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// VersionInfo formats the build metadata for the startup log line.
func VersionInfo() string {
	return fmt.Sprintf("%s (commit %s)", Version, GitCommit)
}
