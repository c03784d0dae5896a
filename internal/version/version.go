// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Known reports whether the binary was built with release metadata.
func Known() bool {
	return Commit != "unknown" && Commit != ""
}
