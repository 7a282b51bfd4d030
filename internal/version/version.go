// Package version holds the service name and build metadata injected via
// ldflags.
package version

// Name is the service name stamped on every log line.
const Name = "legisdex"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
