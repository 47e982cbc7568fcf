// ABOUTME: Version constants for the player and probe binaries
// ABOUTME: Reported by -version and in startup logs
package version

const (
	Version      = "0.3.0"
	Product      = "sdlplay"
	Manufacturer = "SDL-mirror"
)
