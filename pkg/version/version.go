// Package version exposes build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/Scoopit/mysql2databend/pkg/version.Version=1.4.0"
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

var (
	// Version is the semver version (set at build time)
	Version = "0.0.0"

	// GitCommit is the git commit hash (set at build time)
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

const name = "mysql2databend"

// Semver splits Version into its numeric parts. Pre-release and build
// suffixes are ignored and unparsable parts are 0.
func Semver() (major, minor, patch int) {
	core, _, _ := strings.Cut(Version, "+")
	core, _, _ = strings.Cut(core, "-")
	parts := strings.SplitN(core, ".", 3)
	nums := make([]int, 3)
	for i, p := range parts {
		nums[i], _ = strconv.Atoi(p)
	}
	return nums[0], nums[1], nums[2]
}

// BuildInfo is the structured form of the build variables.
type BuildInfo struct {
	Version   string
	Major     int
	Minor     int
	Patch     int
	GitCommit string
	BuildDate string
	GoVersion string
}

// Info returns the build information of the running binary.
func Info() BuildInfo {
	major, minor, patch := Semver()
	return BuildInfo{
		Version:   Version,
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String formats the information the way --version prints it.
func (i BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", name, i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// UserAgent is sent with every HTTP request.
func UserAgent() string {
	return name + "/" + Version
}
