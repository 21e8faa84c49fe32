// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Version also feeds artifact cache keys, so a new release never serves
// documents rendered by an older engine.
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies the engine in outgoing requests.
func UserAgent() string {
	return "treecharts/" + Version
}
