//go:build !linux

// ABOUTME: PulseAudio stub for platforms without a PulseAudio server
// ABOUTME: Keeps the driver table identical across platforms
package output

var pulseBootstrap = Bootstrap{
	Name:        "pulse",
	Description: "PulseAudio native protocol (linux only)",
	Available:   unavailable,
	Create: func(int) (Backend, error) {
		return nil, ErrNotCompiledIn
	},
}
