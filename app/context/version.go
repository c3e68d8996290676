package context

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// The version is set at build time with
// -ldflags "-X go.hackfix.me/weave/app/context.version=v1.2.3".
var version = ""

// VersionInfo describes the version of the running binary.
type VersionInfo struct {
	Semantic  string
	Commit    string
	Dirty     bool
	GoVersion string
}

// GetVersion returns the version information of the running binary, using the
// build information embedded by the Go toolchain.
func GetVersion() (*VersionInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	v := &VersionInfo{Semantic: version, GoVersion: bi.GoVersion}
	if v.Semantic == "" {
		v.Semantic = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Commit = s.Value
		case "vcs.modified":
			v.Dirty = s.Value == "true"
		}
	}

	return v, nil
}

func (v *VersionInfo) String() string {
	s := v.Semantic
	if s == "" {
		s = "(devel)"
	}
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s = fmt.Sprintf("%s (%s", s, commit)
		if v.Dirty {
			s += "-dirty"
		}
		s += ")"
	}

	return fmt.Sprintf("%s, %s", s, v.GoVersion)
}
