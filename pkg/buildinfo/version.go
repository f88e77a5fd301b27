// Package buildinfo carries the version stamped into the retailreboot binary.
//
// The variables are overridden at link time:
//
//	go build -ldflags "-X github.com/retailreboot/retailreboot/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/retailreboot/retailreboot/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/retailreboot/retailreboot/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Current returns the stamp of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template.
func Template() string {
	i := Current()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
