// Package version exposes build-time version information.
//
// The variables are stamped at build time with ldflags, e.g.:
//
//	go build -ldflags "\
//	  -X github.com/flickfinder/flickfinder/version.Version=1.2.3 \
//	  -X github.com/flickfinder/flickfinder/version.Revision=abc123 \
//	  -X 'github.com/flickfinder/flickfinder/version.BuiltAt=$(date -u +%FT%TZ)'"
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// These variables are set during build time.
var (
	// Version is the current version.
	Version = "0.0.0"

	// Revision is the short commit hash of the source tree.
	Revision = "unknown"

	// BuiltAt is the build time.
	BuiltAt = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"builtAt"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the build metadata.
func GetVersionInfo() Info {
	return Info{
		Version:   Version,
		Revision:  Revision,
		BuiltAt:   BuiltAt,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable representation.
func (i Info) String() string {
	return fmt.Sprintf("Version: %s\nRevision: %s\nBuilt At: %s\nGo Version: %s",
		i.Version, i.Revision, i.BuiltAt, i.GoVersion)
}

// JSON returns a JSON representation.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Print prints version information to stdout.
func Print() {
	fmt.Println(GetVersionInfo().String())
}
