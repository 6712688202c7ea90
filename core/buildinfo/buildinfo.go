// Package buildinfo carries version metadata stamped at build time and
// echoed in the startup log line.
package buildinfo

// Set via -ldflags, e.g.:
//
//	-X 'github.com/dkotov/fishshop-bot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/dkotov/fishshop-bot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/dkotov/fishshop-bot/core/buildinfo.Date=2026-08-29T12:00:00Z'
//
// The defaults identify a local development build.
var (
	Version = "dev"
	Commit  = "local"
	Date    = ""
)
