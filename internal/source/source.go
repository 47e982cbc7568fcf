// ABOUTME: Audio source abstraction for playing files or generating test tones
// ABOUTME: Sources produce interleaved int32 samples in 24-bit range at their own rate
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source provides PCM audio samples
type Source interface {
	// Read reads interleaved samples. Returns io.EOF when the source ends.
	Read(samples []int32) (int, error)
	SampleRate() int
	// Channels returns 1 or 2
	Channels() int
	// Title names the source for display
	Title() string
	Close() error
}

// Open creates a source from a file path. An empty path returns a 440Hz
// test tone.
func Open(path string, loop bool) (Source, error) {
	if path == "" {
		return NewTone(440, DefaultToneRate, 2), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	return NewFile(path, loop)
}

func titleOf(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
