//go:build !sdl2

// ABOUTME: SDL2 stub when the library is not compiled in
// ABOUTME: Provides the table entry so the driver name is still known
package output

var sdl2Bootstrap = Bootstrap{
	Name:        "sdl2",
	Description: "SDL2 audio queue (build with -tags sdl2)",
	Available:   unavailable,
	Create: func(int) (Backend, error) {
		return nil, ErrNotCompiledIn
	},
}
