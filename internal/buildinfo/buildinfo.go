// Package buildinfo holds version data stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/AustinGrey/bake-file/internal/buildinfo.Version=v0.3.0" ./cmd/bake
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("bake %s (commit=%s, date=%s)", Version, Commit, Date)
}
