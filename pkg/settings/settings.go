// Package settings provides build metadata, runtime configuration, and
// context helpers used across the termsite CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "termsite"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// ClientClass distinguishes full keyboard clients from constrained ones.
// Constrained ("mobile") clients hide executables and mobile-hidden pages.
type ClientClass string

const (
	ClientDesktop ClientClass = "desktop"
	ClientMobile  ClientClass = "mobile"
)

// ManifestSettings describes where the content manifest comes from.
type ManifestSettings struct {
	FromURL   bool
	FromStdin bool
	Source    string
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	Manifest    ManifestSettings
	Client      ClientClass
	NoColor     bool
	LogFile     string
}

// NewCliParams returns the defaults used by the termsite binary.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Manifest: ManifestSettings{
			FromURL: false,
			Source:  "manifest.json",
		},
		Client:  ClientDesktop,
		NoColor: false,
	}
}

// IsMobile reports whether the run targets a constrained client.
func (r *Run) IsMobile() bool {
	return r != nil && r.Client == ClientMobile
}
