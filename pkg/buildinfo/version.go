// Package buildinfo reports the version stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/containerpak/cpakstore/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/containerpak/cpakstore/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/containerpak/cpakstore/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Overridden with -X at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information in a serializable form, reported by the
// API health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// UserAgent is the User-Agent header sent to store hosts.
func UserAgent() string {
	return "cpakstore/" + Version
}

// Template is the cobra version template, e.g.
//
//	cpakstore v0.3.0 (a1b2c3d, 2026-01-02T15:04:05Z)
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}
