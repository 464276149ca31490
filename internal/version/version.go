// Package version provides build information for the gosnes binaries
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Name is the program name printed in version output
const Name = "gosnes"

const unknown = "unknown"

// Set at build time:
//
//	go build -ldflags "-X gosnes/internal/version.Version=1.0.0 -X gosnes/internal/version.GitCommit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	GitCommit = unknown
	BuildTime = unknown
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildTime  string `json:"build_time"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Arch       string `json:"arch"`
	CGOEnabled bool   `json:"cgo_enabled"`
}

// GetBuildInfo merges the ldflags values with the VCS stamp recorded by the
// go tool. ldflags win.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == unknown {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == unknown {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		case "CGO_ENABLED":
			info.CGOEnabled = setting.Value == "1"
		}
	}
	return info
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

// GetVersion returns a simple version string. Development builds carry
// the short commit.
func GetVersion() string {
	info := GetBuildInfo()
	if info.Version != "dev" || info.GitCommit == unknown {
		return info.Version
	}
	v := "dev-" + shortCommit(info.GitCommit)
	if info.Modified {
		v += "+dirty"
	}
	return v
}

// GetDetailedVersion returns a one-line description of the build
func GetDetailedVersion() string {
	info := GetBuildInfo()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s version %s", Name, GetVersion())
	if info.GitCommit != unknown {
		fmt.Fprintf(&sb, " (commit %s)", shortCommit(info.GitCommit))
	}
	if info.BuildTime != unknown {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			fmt.Fprintf(&sb, " built on %s", t.UTC().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&sb, " built on %s", info.BuildTime)
		}
	}
	fmt.Fprintf(&sb, " with %s for %s/%s", info.GoVersion, info.Platform, info.Arch)
	return sb.String()
}

// WriteBuildInfo writes the build information table to w
func WriteBuildInfo(w io.Writer) {
	info := GetBuildInfo()

	fmt.Fprintf(w, "%s - Super NES CPU emulator and debugger\n", Name)
	fmt.Fprintf(w, "Version:     %s\n", GetVersion())
	fmt.Fprintf(w, "Git Commit:  %s\n", info.GitCommit)
	fmt.Fprintf(w, "Build Time:  %s\n", info.BuildTime)
	fmt.Fprintf(w, "Go Version:  %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform:    %s/%s\n", info.Platform, info.Arch)
	fmt.Fprintf(w, "CGO Enabled: %t\n", info.CGOEnabled)
}
