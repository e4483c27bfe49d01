package buildconfig

import "runtime"

// Set with ldflags:
//
//	-X github.com/Harshitk-cp/deduce/internal/buildconfig.version=v0.3.0
//	-X github.com/Harshitk-cp/deduce/internal/buildconfig.commit=$(git rev-parse --short HEAD)
var (
	version = "dev"
	commit  = "unknown"
)

// SchemaVersion is the newest embedded migration. A server whose database
// reports an older version has not run its migrations.
const SchemaVersion = 2

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// Info is the build block of the /health response.
type Info struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	GoVersion     string `json:"go_version"`
	SchemaVersion int    `json:"schema_version"`
}

func VersionInfo() Info {
	return Info{
		Service:       "deduce",
		Version:       version,
		Commit:        commit,
		GoVersion:     runtime.Version(),
		SchemaVersion: SchemaVersion,
	}
}
