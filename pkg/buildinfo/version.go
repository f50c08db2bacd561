// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/eventboard/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/eventboard/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/eventboard/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/eventboard
package buildinfo

import "fmt"

var (
	Version = "dev"     // Semantic version, e.g. "v0.3.0"
	Commit  = "none"    // Git commit SHA
	Date    = "unknown" // Build timestamp (RFC 3339)
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}

// Health is the build information reported by the API health check.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Healthy returns a Health with status "ok".
func Healthy() Health {
	return Health{Status: "ok", Version: Version, Commit: Commit}
}
