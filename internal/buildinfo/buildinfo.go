// Package buildinfo carries version metadata injected at link time.
package buildinfo

//nolint:gochecknoglobals // Set via -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
