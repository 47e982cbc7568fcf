// ABOUTME: Driver bootstrap table and selection
// ABOUTME: Picks the first available driver, optionally restricted by a name hint
package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Bootstrap describes one driver
type Bootstrap struct {
	Name        string
	Description string

	// Available is a non-blocking probe that holds nothing on return
	Available func() bool

	// Create allocates the driver without touching the hardware. index
	// selects a device when the driver supports several.
	Create func(index int) (Backend, error)

	// DemandOnly drivers are only tried when named explicitly
	DemandOnly bool
}

// Registry is an ordered, immutable list of drivers
type Registry struct {
	entries []Bootstrap
}

// NewRegistry creates a registry that tries entries in the given order
func NewRegistry(entries ...Bootstrap) *Registry {
	return &Registry{entries: append([]Bootstrap(nil), entries...)}
}

// bootstrap is the compile-time driver table, most preferred first
var bootstrap = []Bootstrap{
	pulseBootstrap,
	miniaudioBootstrap,
	otoBootstrap,
	sdl2Bootstrap,
	portaudioBootstrap,
	dummyBootstrap,
}

// DefaultRegistry returns the drivers compiled into this build
func DefaultRegistry() *Registry {
	return NewRegistry(bootstrap...)
}

// Entries returns a copy of the driver table
func (r *Registry) Entries() []Bootstrap {
	return append([]Bootstrap(nil), r.entries...)
}

// Names returns the driver names in table order
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Select finds and creates a driver. With an empty hint every driver that
// is not demand-only is probed in table order. With a hint, only drivers
// whose name is a prefix of the hint are tried; a ":N" suffix selects
// device index N and anything else after the colon is rejected.
func (r *Registry) Select(hint string) (Bootstrap, Backend, error) {
	index := 0
	if i := strings.LastIndexByte(hint, ':'); i >= 0 {
		n, err := strconv.Atoi(hint[i+1:])
		if err != nil || n < 0 {
			return Bootstrap{}, nil, fmt.Errorf("%w: %q", ErrInvalidDeviceIndex, hint)
		}
		index = n
	}

	for _, entry := range r.entries {
		if hint == "" && entry.DemandOnly {
			continue
		}
		if hint != "" && !strings.HasPrefix(hint, entry.Name) {
			continue
		}
		if entry.Available == nil || !entry.Available() {
			log.Debug().Str("driver", entry.Name).Msg("audio driver not available")
			continue
		}

		backend, err := entry.Create(index)
		if err != nil {
			return Bootstrap{}, nil, fmt.Errorf("failed to create %s driver: %w", entry.Name, err)
		}
		return entry, backend, nil
	}

	if hint != "" {
		return Bootstrap{}, nil, fmt.Errorf("%w: %q", ErrNoAudioDevice, hint)
	}
	return Bootstrap{}, nil, ErrNoAudioDevice
}

func unavailable() bool { return false }

func alwaysAvailable() bool { return true }
