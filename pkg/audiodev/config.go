// ABOUTME: Subsystem configuration
// ABOUTME: Driver hint, registry, logger and conversion buffer limit
package audiodev

import (
	"os"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
	"github.com/rs/zerolog"
)

// DefaultMaxBufferBytes caps the conversion buffer allocated by Open
const DefaultMaxBufferBytes = 64 << 20

// Environment variables consulted for the driver hint, in order
var driverEnv = []string{"AUDIODRIVER", "SDL_AUDIODRIVER"}

// Config holds subsystem configuration
type Config struct {
	// Driver restricts selection to drivers whose name prefixes it. A ":N"
	// suffix picks device N. Empty tries every non demand-only driver.
	Driver string

	// Registry defaults to output.DefaultRegistry()
	Registry *output.Registry

	Logger zerolog.Logger

	// MaxBufferBytes defaults to DefaultMaxBufferBytes
	MaxBufferBytes int
}

// DefaultConfig returns a config using the built-in drivers and a silent
// logger
func DefaultConfig() Config {
	return Config{
		Registry:       output.DefaultRegistry(),
		Logger:         zerolog.Nop(),
		MaxBufferBytes: DefaultMaxBufferBytes,
	}
}

// ConfigFromEnv returns DefaultConfig with Driver read from the environment
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Driver = driverFromEnv()
	return cfg
}

func driverFromEnv() string {
	for _, key := range driverEnv {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyDefaults() {
	if c.Registry == nil {
		c.Registry = output.DefaultRegistry()
	}
	if c.MaxBufferBytes <= 0 {
		c.MaxBufferBytes = DefaultMaxBufferBytes
	}
}
