//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides the table entry so the driver name is still known
package output

var portaudioBootstrap = Bootstrap{
	Name:        "portaudio",
	Description: "PortAudio blocking stream (build with -tags portaudio)",
	Available:   unavailable,
	Create: func(int) (Backend, error) {
		return nil, ErrNotCompiledIn
	},
}
