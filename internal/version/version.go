// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns a one-line build description.
func String() string {
	return fmt.Sprintf("shopassist %s (commit %s, built %s)", Version, Commit, Date)
}
