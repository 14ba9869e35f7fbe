// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of fingerbank.
	Version = "dev"
	// Commit holds the current version commit of fingerbank.
	Commit = ""
	// BuildDate holds the build date of fingerbank.
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`
}

// String returns a one line summary.
func (i Info) String() string {
	if i.Commit == "" {
		return fmt.Sprintf("fingerbank %s (date: %s)", i.Version, i.BuildDate)
	}
	return fmt.Sprintf("fingerbank %s (commit: %s, date: %s)", i.Version, i.Commit, i.BuildDate)
}

// GetVersion returns version information. When no commit was injected at build
// time the VCS revision recorded by the Go toolchain is used, if any.
func GetVersion() Info {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	return Info{
		Version:   Version,
		Commit:    commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
