// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/theia-art/theia/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/theia-art/theia/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/theia-art/theia/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies theia in outgoing HTTP headers.
func UserAgent() string {
	return "theia/" + Version
}
