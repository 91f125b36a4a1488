// Package version exposes the build metadata stamped into the binary.
//
// Release builds set the package variables via ldflags, e.g.
//
//	go build -ldflags "-X github.com/sellbridge/sellbridge-api/internal/version.Version=1.2.0"
//
// Unstamped builds fall back to the VCS settings the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic release version.
	Version = "0.0.0-dev"

	// Commit and Date identify the exact build. When left empty, Get fills
	// them from the embedded VCS settings.
	Commit = ""
	Date   = ""

	// Dirty is "true" when the tree had uncommitted changes at build time.
	Dirty = "false"
)

// Info is the resolved build metadata, JSON-ready for the health endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Dirty     bool   `json:"dirty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get resolves the stamped variables, filling commit and date from the
// toolchain's embedded VCS info when ldflags did not provide them.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		Dirty:     Dirty == "true",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info.Commit == "" || info.Date == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					if info.Commit == "" {
						info.Commit = s.Value
					}
				case "vcs.time":
					if info.Date == "" {
						info.Date = s.Value
					}
				case "vcs.modified":
					if s.Value == "true" {
						info.Dirty = true
					}
				}
			}
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// String renders the full build identity for startup logs.
func (i Info) String() string {
	commit := i.Commit
	if i.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s) built %s", i.Version, commit, i.Date)
}

// Short returns just the version, with a dirty marker when applicable.
func (i Info) Short() string {
	if i.Dirty {
		return i.Version + "-dirty"
	}
	return i.Version
}
