package pptx

import "fmt"

// Version information for the GoDeck container library.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
)

// Version is the full version string of the GoDeck container library.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// appVersion is the AppVersion written to docProps/app.xml (major.minor with
// a zero-padded minor, as Office expects).
func appVersion() string {
	return fmt.Sprintf("%d.%04d", VersionMajor, VersionMinor)
}
