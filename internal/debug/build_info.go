package debug

import (
	"runtime/debug"
	"strings"
)

/*
BuildInfo describes the running binary: main module version followed by the
VCS settings it was built from, ie

	v0.2.0 vcs=git vcs.revision=8f1c... vcs.modified=false

Empty string is returned when the binary carries no build information.
*/
func BuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return formatBuildInfo(info)
}

func formatBuildInfo(info *debug.BuildInfo) string {
	var parts []string
	if v := info.Main.Version; v != "" {
		parts = append(parts, v)
	}
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs") {
			parts = append(parts, s.Key+"="+s.Value)
		}
	}
	return strings.Join(parts, " ")
}
