package utils

import (
	"fmt"
	"runtime/debug"
)

// Version is overridden at build time with -ldflags "-X sensor-dashboard/backend/pkg/utils.Version=..."
var Version = "0.0.0-dev"

func GetBuildVersion() string {
	commit, buildTime, modified := getVCSInfo()
	return fmt.Sprintf("v%s%s (%s) built at %s", Version, dirtySuffix(modified), commit, buildTime)
}

func GetVersionShort() string {
	commit, _, modified := getVCSInfo()
	return fmt.Sprintf("v%s%s (%s)", Version, dirtySuffix(modified), commit)
}

func GetBuildInfo() map[string]string {
	commit, buildTime, modified := getVCSInfo()

	info := map[string]string{
		"version":      Version,
		"commit":       commit,
		"build_time":   buildTime,
		"vcs_modified": modified,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info["go_version"] = bi.GoVersion
	}

	return info
}

func dirtySuffix(modified string) string {
	if modified == "true" {
		return "-dirty"
	}

	return ""
}

func getVCSInfo() (commit, buildTime, modified string) {
	commit, buildTime, modified = "unknown", "unknown", "false"

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, buildTime, modified
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if s.Value != "" {
				commit = s.Value[:min(7, len(s.Value))]
			}
		case "vcs.time":
			if s.Value != "" {
				buildTime = s.Value
			}
		case "vcs.modified":
			if s.Value == "true" {
				modified = "true"
			}
		}
	}

	return commit, buildTime, modified
}
